package handlers

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/cart"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/catalogview"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/checkout"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/listing"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/notify"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/selection"
	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
)

const gridErrorMessage = "Could not load products. Please try again."

func productCard(p catalog.Product) view.ProductCard {
	card := view.ProductCard{
		ID:       p.ID,
		Title:    view.PlainText(p.Title),
		ImageURL: p.ImageURL(),
		Price:    view.Money(p.Price),
		Discount: view.DiscountBadge(p.DiscountPercentage),
	}
	if p.Rating != nil {
		card.Rating = view.Rating(p.Rating)
	}
	return card
}

func productDetail(p catalog.Product) view.ProductDetail {
	return view.ProductDetail{
		ID:          p.ID,
		Title:       view.PlainText(p.Title),
		ImageURL:    p.ImageURL(),
		Description: view.PlainText(p.Description),
		Category:    view.CategoryLabel(p.Category),
		Rating:      view.Rating(p.Rating),
		Price:       view.Money(p.Price),
	}
}

func gridView(s catalogview.Snapshot) view.Grid {
	g := view.Grid{Ticket: uint64(s.Ticket), Placeholders: s.Placeholders}
	switch s.Phase {
	case catalogview.Ready:
		g.Cards = make([]view.ProductCard, 0, len(s.Visible))
		for _, p := range s.Visible {
			g.Cards = append(g.Cards, productCard(p))
		}
		g.Empty = len(g.Cards) == 0
	case catalogview.Failed:
		g.Error = gridErrorMessage
	default:
		g.Loading = true
	}
	return g
}

func toolbarView(s catalogview.Snapshot, debounce time.Duration) view.Toolbar {
	tb := view.Toolbar{Query: s.Query, Debounce: int(debounce / time.Millisecond)}
	for _, o := range listing.SortOptions {
		tb.Sort = append(tb.Sort, view.SortOption{
			Value:    string(o.Key),
			Label:    o.Label,
			Selected: o.Key == s.Sort,
		})
	}
	return tb
}

func panelView(p cart.Panel) view.Panel {
	v := view.Panel{
		List:    string(p.List),
		Title:   "Your Cart",
		Rows:    make([]view.PanelRow, 0, len(p.Rows)),
		Total:   view.Money(p.Total),
		Missing: len(p.Missing),
		Empty:   p.Empty(),
	}
	if p.List == selection.Wishlist {
		v.Title = "Your Wishlist"
	}
	for _, r := range p.Rows {
		v.Rows = append(v.Rows, view.PanelRow{
			ID:       r.Product.ID,
			Title:    view.PlainText(r.Product.Title),
			ImageURL: r.Product.ImageURL(),
			Price:    view.Money(r.Product.Price),
		})
	}
	v.ShowTotal = p.List == selection.Cart && len(v.Rows) > 0
	return v
}

func summaryView(s checkout.Summary) view.CheckoutSummary {
	v := view.CheckoutSummary{Total: view.Money(s.Total)}
	for _, l := range s.Lines {
		v.Lines = append(v.Lines, view.SummaryLine{
			Title: view.PlainText(l.Product.Title),
			Price: view.Money(l.Product.Price),
		})
	}
	return v
}

func checkoutForm(in checkout.Input, errs map[string]string) view.CheckoutForm {
	f := view.CheckoutForm{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
		WalletAccount: in.WalletAccount,
		BankName:      in.BankName,
		AccountNumber: in.AccountNumber,
		Banks:         checkout.Banks,
		Errors:        errs,
	}
	for _, o := range checkout.PaymentOptions {
		f.Payments = append(f.Payments, view.PaymentChoice{
			Value:    string(o.Method),
			Label:    o.Label,
			Icon:     o.Icon,
			Selected: string(o.Method) == in.PaymentMethod,
		})
	}
	return f
}

func notificationView(number string, o notify.Outcome, ok bool) view.NotificationStatus {
	v := view.NotificationStatus{Number: number, Status: string(notify.StatusUnknown)}
	if ok {
		v.Status = string(o.Status)
		v.Recipient = o.Recipient
	}
	return v
}

// backTo returns the path and query of the referring page, or "/".
func backTo(c *gin.Context) string {
	u, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
