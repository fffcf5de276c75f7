package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/flash"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/middleware"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/render"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/cart"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/selection"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/shared/apperr"
	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
	"github.com/Bilal-Junaid-Jiwani/fake-API/templates/pages"
)

// SelectionHandler serves the cart and wishlist panels, the header counts and
// the theme toggle. List routes are built per list so the list name travels
// in the route instead of the form.
type SelectionHandler struct {
	Cart   *cart.Service
	Store  *selection.Store
	Flash  *flash.Codec
	Logger *slog.Logger
}

const saveFailedMessage = "Could not save your selection. Please try again."

// Panel handles GET /cart and GET /wishlist.
func (h *SelectionHandler) Panel(list selection.List) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := h.Cart.Panel(c.Request.Context(), middleware.GetShopper(c), list)
		render.Component(c, http.StatusOK, pages.Panel(panelView(p)))
	}
}

// Add handles POST /{list}/items with form field product_id.
func (h *SelectionHandler) Add(list selection.List) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(strings.TrimSpace(c.PostForm("product_id")))
		if err != nil || id <= 0 {
			middleware.Fail(c, apperr.InvalidErr("Unknown product.", map[string]string{"product_id": "Unknown product."}))
			return
		}

		res, err := h.Cart.Add(c.Request.Context(), middleware.GetShopper(c), list, id)
		if err != nil {
			middleware.Fail(c, apperr.UnavailableErr(saveFailedMessage, err))
			return
		}
		h.logChange(c, "selection_added", list, id, res.Notice)

		kind := view.FlashSuccess
		if res.Notice == cart.NoticeDuplicate {
			kind = view.FlashInfo
		}
		h.respond(c, list, res, kind, false)
	}
}

// Remove handles POST /{list}/items/:id/delete. htmx callers get the
// refreshed panel back.
func (h *SelectionHandler) Remove(list selection.List) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			middleware.Fail(c, apperr.NotFoundErr("Item not found."))
			return
		}

		res, err := h.Cart.Remove(c.Request.Context(), middleware.GetShopper(c), list, id)
		if err != nil {
			middleware.Fail(c, apperr.UnavailableErr(saveFailedMessage, err))
			return
		}
		h.logChange(c, "selection_removed", list, id, res.Notice)
		h.respond(c, list, res, view.FlashSuccess, true)
	}
}

// Counts handles GET /selection/counts. HeaderContext has already loaded
// fresh counts for this request.
func (h *SelectionHandler) Counts(c *gin.Context) {
	render.Component(c, http.StatusOK, pages.Counts(middleware.GetHeader(c)))
}

// ToggleTheme handles POST /theme/toggle.
func (h *SelectionHandler) ToggleTheme(c *gin.Context) {
	t, err := h.Store.ToggleTheme(c.Request.Context(), middleware.GetShopper(c))
	if err != nil {
		middleware.Fail(c, apperr.UnavailableErr("Could not save your theme. Please try again.", err))
		return
	}
	h.Logger.LogAttrs(c.Request.Context(), slog.LevelDebug, "theme_toggled",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("theme", string(t)),
	)

	if middleware.IsHTMX(c) {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, backTo(c))
}

func (h *SelectionHandler) respond(c *gin.Context, list selection.List, res cart.Result, kind view.FlashKind, withPanel bool) {
	msg := res.Notice.Message(list)

	hd := middleware.GetHeader(c)
	hd.CartCount = res.Counts.Cart
	hd.WishlistCount = res.Counts.Wishlist
	middleware.SetHeader(c, hd)

	if !middleware.IsHTMX(c) {
		render.RedirectWithFlash(c, h.Flash, backTo(c), kind, msg)
		return
	}

	render.Trigger(c, map[string]any{"toast": msg, "selection-changed": true})
	if !withPanel {
		c.Status(http.StatusNoContent)
		return
	}
	p := h.Cart.Panel(c.Request.Context(), middleware.GetShopper(c), list)
	render.Component(c, http.StatusOK, pages.Panel(panelView(p)))
}

func (h *SelectionHandler) logChange(c *gin.Context, event string, list selection.List, id int, n cart.Notice) {
	h.Logger.LogAttrs(c.Request.Context(), slog.LevelInfo, event,
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("list", string(list)),
		slog.Int("product_id", id),
		slog.String("notice", string(n)),
	)
}
