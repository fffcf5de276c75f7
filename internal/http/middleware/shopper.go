package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/shoppercookie"
)

const CtxKeyShopper = "shopper_id"

// Shopper makes sure every request carries a signed anonymous shopper id.
func Shopper(codec *shoppercookie.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := codec.Ensure(c)
		c.Set(CtxKeyShopper, id)
		c.Next()
	}
}

func GetShopper(c *gin.Context) string {
	return c.GetString(CtxKeyShopper)
}
