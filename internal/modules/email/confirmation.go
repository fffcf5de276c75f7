package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/notify"
)

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<html>
  <body style="font-family: sans-serif;">
    <h2>Order Confirmation</h2>
    <p>Dear {{.CustomerName}},</p>
    <p>Thank you for your order!</p>
    <p><strong>Order Number:</strong> {{.Number}}</p>
    <p><strong>Total Amount:</strong> ${{.Total.StringFixed 2}}</p>
    <p><strong>Payment Method:</strong> {{.Method}}</p>
    <p><strong>Shipping Address:</strong> {{.Address}}</p>
    <p>We will keep you updated.</p>
  </body>
</html>
`))

// ConfirmationNotifier turns an OrderPlaced event into the confirmation email.
type ConfirmationNotifier struct {
	sender Sender
}

func NewConfirmationNotifier(s Sender) *ConfirmationNotifier {
	return &ConfirmationNotifier{sender: s}
}

func (n *ConfirmationNotifier) Handle(ctx context.Context, ev notify.OrderPlaced) error {
	m, err := ConfirmationMessage(ev)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, m)
}

// ConfirmationMessage renders the subject and both bodies for ev.
func ConfirmationMessage(ev notify.OrderPlaced) (Message, error) {
	method := strings.ToUpper(ev.PaymentMethod)

	text := fmt.Sprintf("Dear %s,\n\nThank you for your order!\n\nOrder Number: %s\nTotal Amount: $%s\nPayment Method: %s\nShipping Address: %s\n\nWe will keep you updated.",
		ev.CustomerName, ev.Number, ev.Total.StringFixed(2), method, ev.Address)

	var html bytes.Buffer
	err := confirmationHTML.Execute(&html, struct {
		notify.OrderPlaced
		Method string
	}{ev, method})
	if err != nil {
		return Message{}, fmt.Errorf("render confirmation: %w", err)
	}

	return Message{
		To:      ev.Email,
		ToName:  ev.CustomerName,
		Subject: "Order Confirmation - " + ev.Number,
		Text:    text,
		HTML:    html.String(),
	}, nil
}
