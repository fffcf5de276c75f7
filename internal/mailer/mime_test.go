package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validEmail() Email {
	return Email{
		From:     "orders@example.com",
		FromName: "Storefront",
		To:       []string{"ada@example.com"},
		Subject:  "Order Confirmation - ORD-12345678",
		TextBody: "Dear Ada,",
	}
}

func TestBuildMIMEMessage(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("TextOnly", func(t *testing.T) {
		raw, err := buildMIMEMessage(validEmail(), "example.com", now)
		require.NoError(t, err)
		require.Contains(t, raw, "To: ada@example.com\r\n")
		require.Contains(t, raw, "Subject: Order Confirmation - ORD-12345678\r\n")
		require.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
		require.NotContains(t, raw, "multipart")
		require.True(t, strings.HasSuffix(raw, "Dear Ada,\r\n"))
	})

	t.Run("Alternative", func(t *testing.T) {
		e := validEmail()
		e.HTMLBody = "<p>Dear Ada,</p>"
		raw, err := buildMIMEMessage(e, "example.com", now)
		require.NoError(t, err)
		require.Contains(t, raw, "multipart/alternative")
		require.Less(t, strings.Index(raw, "text/plain"), strings.Index(raw, "text/html"))
	})

	t.Run("HeadersSortedAndSanitised", func(t *testing.T) {
		e := validEmail()
		e.Headers = map[string]string{"X-B": "2", "X-A": "1", "X-Evil": "a\r\nBcc: x@y"}
		raw, err := buildMIMEMessage(e, "example.com", now)
		require.NoError(t, err)
		require.Less(t, strings.Index(raw, "X-A: 1"), strings.Index(raw, "X-B: 2"))
		require.NotContains(t, raw, "X-Evil")
	})
}

func TestEmail_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Email)
		want   error
	}{
		{"NoRecipient", func(e *Email) { e.To = nil }, ErrNoRecipient},
		{"NoFrom", func(e *Email) { e.From = " " }, ErrNoFrom},
		{"NoSubject", func(e *Email) { e.Subject = "" }, ErrNoSubject},
		{"NoBody", func(e *Email) { e.TextBody = "" }, ErrNoBody},
		{"InjectedSubject", func(e *Email) { e.Subject = "hi\r\nBcc: x@y" }, ErrHeaderValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEmail()
			tt.mutate(&e)
			require.ErrorIs(t, e.Validate(), tt.want)
		})
	}
	require.NoError(t, validEmail().Validate())
}

func TestMock(t *testing.T) {
	m := &Mock{Err: errors.New("relay down")}
	err := m.Send(context.Background(), validEmail())
	require.EqualError(t, err, "relay down")
	require.Equal(t, 1, m.Count())
	last, ok := m.Last()
	require.True(t, ok)
	require.Equal(t, "ada@example.com", last.To[0])
}
