package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/flash"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/middleware"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/render"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/checkout"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/notify"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/shared/apperr"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/shared/validation"
	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
	"github.com/Bilal-Junaid-Jiwani/fake-API/templates/pages"
)

const (
	emptyCartMessage       = "Your cart is empty."
	catalogDownMessage     = "Could not load your cart right now. Please try again."
	checkoutNetworkMessage = "Could not confirm prices with the catalog. Your cart has not been changed. Please try again."
)

type CheckoutHandler struct {
	Chrome   *Chrome
	Checkout *checkout.Service
	Tracker  *notify.Tracker
	Flash    *flash.Codec
	Logger   *slog.Logger
}

// Get handles GET /checkout.
func (h *CheckoutHandler) Get(c *gin.Context) {
	sum, err := h.Checkout.Summary(c.Request.Context(), middleware.GetShopper(c))
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		render.RedirectWithFlash(c, h.Flash, "/", view.FlashWarning, emptyCartMessage)
		return
	case err != nil:
		h.Logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "checkout_summary_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("err", err.Error()),
		)
		render.ErrorPage(c, http.StatusBadGateway, catalogDownMessage, h.Chrome.Layout(c, "Checkout", "", false))
		return
	}

	render.Component(c, http.StatusOK, pages.Checkout(view.CheckoutPage{
		Layout:  h.Chrome.Layout(c, "Checkout", "", false),
		Summary: summaryView(sum),
		Form:    checkoutForm(checkout.Input{}, nil),
	}))
}

// Post handles POST /checkout. Invalid input re-renders the form with 422 and
// the submitted values. On success the confirmation page is rendered
// directly; the email goes out in the background.
func (h *CheckoutHandler) Post(c *gin.Context) {
	ctx := c.Request.Context()
	shopper := middleware.GetShopper(c)

	var in checkout.Input
	if err := c.ShouldBind(&in); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, in, validation.FromBindError(err, &in))
		return
	}

	o, err := h.Checkout.PlaceOrder(ctx, shopper, in)
	if err != nil {
		in.Normalize()
		if errors.Is(err, checkout.ErrEmptyCart) {
			render.RedirectWithFlash(c, h.Flash, "/", view.FlashWarning, emptyCartMessage)
			return
		}
		if ae, ok := apperr.As(err); ok && ae.Kind == apperr.Invalid {
			h.renderForm(c, http.StatusUnprocessableEntity, in, ae.Fields)
			return
		}
		if catalog.IsNetworkError(err) {
			h.Logger.LogAttrs(ctx, slog.LevelWarn, "checkout_lookup_failed",
				slog.String("request_id", middleware.GetRequestID(c)),
				slog.String("err", err.Error()),
			)
			h.renderForm(c, http.StatusBadGateway, in, map[string]string{validation.FormField: checkoutNetworkMessage})
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	hd := middleware.GetHeader(c)
	hd.CartCount = 0
	middleware.SetHeader(c, hd)

	out, ok := h.Tracker.Get(o.Number, o.Shopper)
	render.Component(c, http.StatusOK, pages.Confirmation(view.ConfirmationPage{
		Layout:        h.Chrome.Layout(c, "Order placed", "", false),
		Number:        o.Number,
		PaymentMethod: strings.ToUpper(string(o.PaymentMethod)),
		Email:         o.Customer.Email,
		Total:         view.Money(o.Total),
		Notification:  notificationView(o.Number, out, ok),
	}))
}

// Notification handles GET /checkout/notifications/:number, polled by the
// confirmation page until the email outcome is final.
func (h *CheckoutHandler) Notification(c *gin.Context) {
	number := c.Param("number")
	out, ok := h.Tracker.Get(number, middleware.GetShopper(c))
	render.Component(c, http.StatusOK, pages.NotificationStatus(notificationView(number, out, ok)))
}

func (h *CheckoutHandler) renderForm(c *gin.Context, status int, in checkout.Input, errs map[string]string) {
	sum, err := h.Checkout.Summary(c.Request.Context(), middleware.GetShopper(c))
	if err != nil && !errors.Is(err, checkout.ErrEmptyCart) {
		h.Logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "checkout_summary_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("err", err.Error()),
		)
	}
	render.Component(c, status, pages.Checkout(view.CheckoutPage{
		Layout:  h.Chrome.Layout(c, "Checkout", "", false),
		Summary: summaryView(sum),
		Form:    checkoutForm(in, errs),
	}))
}
