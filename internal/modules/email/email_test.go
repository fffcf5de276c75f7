package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/config"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/mailer"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/notify"
)

func placed() notify.OrderPlaced {
	return notify.OrderPlaced{
		Number:        "ORD-87654321",
		CustomerName:  "Ada <Lovelace>",
		Email:         "ada@example.com",
		Address:       "1 Analytical St",
		PaymentMethod: "jazzcash",
		Total:         decimal.RequireFromString("1798"),
	}
}

func TestConfirmationMessage(t *testing.T) {
	m, err := ConfirmationMessage(placed())
	require.NoError(t, err)

	require.Equal(t, "ada@example.com", m.To)
	require.Equal(t, "Order Confirmation - ORD-87654321", m.Subject)
	require.Equal(t, "Dear Ada <Lovelace>,\n\nThank you for your order!\n\nOrder Number: ORD-87654321\nTotal Amount: $1798.00\nPayment Method: JAZZCASH\nShipping Address: 1 Analytical St\n\nWe will keep you updated.", m.Text)
	require.Contains(t, m.HTML, "Ada &lt;Lovelace&gt;")
	require.Contains(t, m.HTML, "$1798.00")
}

type recordingSender struct {
	got []Message
	err error
}

func (s *recordingSender) Send(ctx context.Context, m Message) error {
	s.got = append(s.got, m)
	return s.err
}

func TestConfirmationNotifier_Handle(t *testing.T) {
	s := &recordingSender{err: errors.New("down")}
	err := NewConfirmationNotifier(s).Handle(context.Background(), placed())
	require.EqualError(t, err, "down")
	require.Len(t, s.got, 1)
}

func TestMailerAdapter(t *testing.T) {
	mock := &mailer.Mock{}
	a := NewMailerAdapter(mock, "orders@example.com", "Storefront")

	require.NoError(t, a.Send(context.Background(), Message{To: "ada@example.com", Subject: "s", Text: "t"}))
	last, ok := mock.Last()
	require.True(t, ok)
	require.Equal(t, []string{"ada@example.com"}, last.To)
	require.Equal(t, "orders@example.com", last.From)
}

func TestMailtrapProvider(t *testing.T) {
	t.Run("PostsPayloadWithBearerToken", func(t *testing.T) {
		var got MailtrapPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		p := NewMailtrapProvider(config.MailtrapConfig{APIURL: srv.URL, APIToken: "tok"}, "orders@example.com", "Storefront", srv.Client())
		require.NoError(t, p.Send(context.Background(), Message{To: "ada@example.com", Subject: "Order Confirmation - ORD-1", Text: "hi"}))

		require.Equal(t, "orders@example.com", got.From.Email)
		require.Equal(t, "ada@example.com", got.To[0].Email)
		require.Equal(t, "Order Confirmation - ORD-1", got.Subject)
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad token", http.StatusUnauthorized)
		}))
		defer srv.Close()

		p := NewMailtrapProvider(config.MailtrapConfig{APIURL: srv.URL, APIToken: "tok"}, "a@b.c", "", nil)
		err := p.Send(context.Background(), Message{To: "x@y.z"})
		require.ErrorContains(t, err, "401")
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		p := NewMailtrapProvider(config.MailtrapConfig{}, "a@b.c", "", nil)
		require.Error(t, p.Send(context.Background(), Message{To: "x@y.z"}))
	})
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(config.Config{Email: config.EmailConfig{Driver: "log"}}, nil)
	require.NoError(t, err)
	require.IsType(t, &LogSender{}, s)

	s, err = NewSender(config.Config{Email: config.EmailConfig{Driver: "smtp"}}, nil)
	require.NoError(t, err)
	require.IsType(t, &MailerAdapter{}, s)

	_, err = NewSender(config.Config{Email: config.EmailConfig{Driver: "pigeon"}}, nil)
	require.Error(t, err)
}
