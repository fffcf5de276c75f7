// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"context"
	"errors"
	"strings"
)

type Service interface {
	Send(ctx context.Context, e Email) error
}

type Email struct {
	FromName string
	From     string

	To  []string
	Cc  []string
	Bcc []string

	Subject string

	TextBody string
	HTMLBody string

	Headers map[string]string
}

func (e Email) AllRecipients() []string {
	out := make([]string, 0, len(e.To)+len(e.Cc)+len(e.Bcc))
	out = append(out, e.To...)
	out = append(out, e.Cc...)
	out = append(out, e.Bcc...)
	return out
}

var (
	ErrNoRecipient = errors.New("mailer: at least one recipient required")
	ErrNoFrom      = errors.New("mailer: from address required")
	ErrNoSubject   = errors.New("mailer: subject required")
	ErrNoBody      = errors.New("mailer: text or html body required")
	ErrHeaderValue = errors.New("mailer: header value contains a line break")
)

// Validate checks the fields every transport needs. Addresses and the
// subject end up in headers, so line breaks are rejected.
func (e Email) Validate() error {
	switch {
	case len(e.To) == 0:
		return ErrNoRecipient
	case strings.TrimSpace(e.From) == "":
		return ErrNoFrom
	case strings.TrimSpace(e.Subject) == "":
		return ErrNoSubject
	case e.TextBody == "" && e.HTMLBody == "":
		return ErrNoBody
	}
	for _, v := range append(e.AllRecipients(), e.From, e.FromName, e.Subject) {
		if strings.ContainsAny(v, "\r\n") {
			return ErrHeaderValue
		}
	}
	return nil
}
