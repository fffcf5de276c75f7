package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/flash"
	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
)

const CtxKeyFlash = "flash"

// Flash moves a pending flash cookie into the request context.
func Flash(codec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if f := codec.Take(c); f != nil {
			c.Set(CtxKeyFlash, f)
		}
		c.Next()
	}
}

func GetFlash(c *gin.Context) *view.Flash {
	if v, ok := c.Get(CtxKeyFlash); ok {
		if f, ok := v.(*view.Flash); ok {
			return f
		}
	}
	return nil
}
