package middleware

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/shared/apperr"
)

func WantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// IsHTMX reports a request issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// Fail records err for ErrorHandler and stops the chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last recorded error unless a handler already
// wrote a response. htmx requests get a fragment for the swap target.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)
		rid := GetRequestID(c)

		level := slog.LevelError
		if status < 500 {
			level = slog.LevelWarn
		}
		l.LogAttrs(c.Request.Context(), level, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		switch {
		case WantsJSON(c):
			payload := gin.H{"error": publicMsg, "request_id": rid}
			if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
				payload["fields"] = ae.Fields
			}
			c.AbortWithStatusJSON(status, payload)

		case IsHTMX(c):
			c.Abort()
			c.Data(status, "text/html; charset=utf-8",
				[]byte(fmt.Sprintf(`<div class="alert error" role="alert">%s</div>`, html.EscapeString(publicMsg))))

		default:
			c.Abort()
			c.Data(status, "text/html; charset=utf-8", []byte(fmt.Sprintf(
				"<html><body><h1>%d %s</h1><p>%s</p><p>Request ID: %s</p><p><a href=\"/\">Back to the shop</a></p></body></html>",
				status, http.StatusText(status), html.EscapeString(publicMsg), html.EscapeString(rid))))
		}
	}
}
