package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
)

// NotificationStatus is the confirmation email line. It polls itself every
// two seconds until the outcome is final.
func NotificationStatus(n view.NotificationStatus) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<p id="notification"`)
		if !n.Final() {
			b.WriteString(` hx-get="`)
			b.WriteString(templ.EscapeString(string(templ.URL("/checkout/notifications/" + n.Number))))
			b.WriteString(`" hx-trigger="every 2s" hx-swap="outerHTML"`)
		}
		b.WriteString(">")

		to := templ.EscapeString(n.Recipient)
		switch n.Status {
		case "sent":
			b.WriteString("A confirmation email was sent to " + to + ".")
		case "failed":
			b.WriteString(`<span class="alert">We could not send the confirmation email to ` + to + `. Your order is still placed.</span>`)
		case "pending":
			b.WriteString("Sending a confirmation email to " + to + "…")
		default:
			b.WriteString(`<span class="muted">Confirmation status is no longer available.</span>`)
		}
		b.WriteString("</p>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}
