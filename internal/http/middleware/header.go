package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/selection"
	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
)

const ctxKeyHeader = "header"

// HeaderContext loads the shopper's list counts and theme once per request.
// It must run after Shopper.
func HeaderContext(store *selection.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		shopper := GetShopper(c)
		counts := store.Counts(ctx, shopper)
		c.Set(ctxKeyHeader, view.Header{
			CartCount:     counts.Cart,
			WishlistCount: counts.Wishlist,
			Theme:         string(store.Theme(ctx, shopper)),
		})
		c.Next()
	}
}

func GetHeader(c *gin.Context) view.Header {
	if v, ok := c.Get(ctxKeyHeader); ok {
		if h, ok := v.(view.Header); ok {
			return h
		}
	}
	return view.Header{Theme: string(selection.DefaultTheme)}
}

// SetHeader replaces the header after a mutation in the same request.
func SetHeader(c *gin.Context, h view.Header) {
	c.Set(ctxKeyHeader, h)
}
