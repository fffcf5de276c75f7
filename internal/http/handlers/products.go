package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/middleware"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/render"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/catalogview"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/listing"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/shared/apperr"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/shared/slug"
	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
	"github.com/Bilal-Junaid-Jiwani/fake-API/templates/pages"
)

// ProductGetter loads one product for the details view.
type ProductGetter interface {
	GetProduct(ctx context.Context, id int) (catalog.Product, error)
}

// ProductsHandler serves the home page, category listings and the htmx grid
// partials. The shell page is rendered with placeholders first; the grid
// placeholder then requests /products/grid with its ticket.
type ProductsHandler struct {
	Chrome   *Chrome
	Views    *catalogview.Registry
	Products ProductGetter
	Debounce time.Duration
	Logger   *slog.Logger
}

// Home handles GET /.
func (h *ProductsHandler) Home(c *gin.Context) {
	category := h.Chrome.Nav.DefaultCategory
	snap := h.Views.For(middleware.GetShopper(c)).Begin(category)

	render.Component(c, http.StatusOK, pages.Home(view.HomePage{
		Layout:     h.Chrome.Layout(c, "Storefront", category, true),
		QuickChips: h.Chrome.QuickChips(),
		Category:   category,
		Toolbar:    toolbarView(snap, h.Debounce),
		Grid:       gridView(snap),
	}))
}

// List handles GET /products?category=. A blank category lists everything.
func (h *ProductsHandler) List(c *gin.Context) {
	category := slug.Category(c.Query("category"))
	snap := h.Views.For(middleware.GetShopper(c)).Begin(category)

	title := "All products"
	if category != "" {
		title = view.CategoryLabel(category)
	}
	render.Component(c, http.StatusOK, pages.Listing(view.ListingPage{
		Layout:   h.Chrome.Layout(c, title, category, false),
		Category: category,
		Toolbar:  toolbarView(snap, h.Debounce),
		Grid:     gridView(snap),
	}))
}

// Grid handles GET /products/grid?ticket=. A superseded ticket gets 204 so
// htmx leaves the page alone; the newer request renders instead.
func (h *ProductsHandler) Grid(c *gin.Context) {
	t, err := strconv.ParseUint(c.Query("ticket"), 10, 64)
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid listing request.", nil))
		return
	}

	snap, err := h.Views.For(middleware.GetShopper(c)).Complete(c.Request.Context(), catalogview.Ticket(t))
	if errors.Is(err, catalogview.ErrStale) {
		c.Status(http.StatusNoContent)
		return
	}
	render.Component(c, http.StatusOK, pages.Grid(gridView(snap)))
}

// Refine handles GET /products/refine?q=&sort=. It never calls the catalog.
// While a fetch is in flight the new values are only recorded and the
// pending grid request renders them.
func (h *ProductsHandler) Refine(c *gin.Context) {
	ctrl := h.Views.For(middleware.GetShopper(c))
	query := strings.TrimSpace(c.Query("q"))
	key := listing.ParseSortKey(c.Query("sort"))

	begun := false
	if ctrl.Snapshot().Phase == catalogview.Idle {
		ctrl.Begin(h.Chrome.Nav.DefaultCategory)
		begun = true
	}

	snap := ctrl.Refine(query, key)
	if snap.Phase == catalogview.Loading && !begun {
		c.Status(http.StatusNoContent)
		return
	}
	render.Component(c, http.StatusOK, pages.Grid(gridView(snap)))
}

// Detail handles GET /products/:id and renders the details partial.
func (h *ProductsHandler) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		middleware.Fail(c, apperr.NotFoundErr("Product not found."))
		return
	}

	p, err := h.Products.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.Logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "product_detail_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.Int("product_id", id),
			slog.String("err", err.Error()),
		)
		status := http.StatusBadGateway
		if middleware.IsHTMX(c) {
			status = http.StatusOK
		}
		render.Component(c, status, pages.ProductDetailError())
		return
	}
	render.Component(c, http.StatusOK, pages.ProductDetail(productDetail(p)))
}
