package render

import (
	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/middleware"
	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
	"github.com/Bilal-Junaid-Jiwani/fake-API/templates/pages"
)

func ErrorPage(c *gin.Context, status int, msg string, layout view.Layout) {
	layout.RequestID = middleware.GetRequestID(c)
	Component(c, status, pages.Error(view.ErrorPage{Layout: layout, Status: status, Message: msg}))
}
