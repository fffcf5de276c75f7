package render

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/flash"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/middleware"
	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
)

func RedirectWithFlash(c *gin.Context, codec *flash.Codec, location string, kind view.FlashKind, msg string) {
	_ = codec.Set(c, view.Flash{Kind: kind, Message: msg})
	if middleware.IsHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// Trigger sets HX-Trigger so the page raises the named events. Values reach
// listeners as event.detail.value.
func Trigger(c *gin.Context, events map[string]any) {
	b, err := json.Marshal(events)
	if err != nil {
		return
	}
	c.Header("HX-Trigger", string(b))
}
