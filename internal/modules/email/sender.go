// Package email builds and sends the order confirmation message.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/config"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/mailer"
)

// Message is one outbound email, transport agnostic.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// NewSender picks the transport named by cfg.Email.Driver.
func NewSender(cfg config.Config, logger *slog.Logger) (Sender, error) {
	switch cfg.Email.Driver {
	case "", "log":
		return NewLogSender(logger), nil
	case "smtp":
		return NewMailerAdapter(mailer.NewSMTPMailer(cfg.SMTP), cfg.Email.From, cfg.Email.FromName), nil
	case "mailtrap":
		return NewMailtrapProvider(cfg.Mailtrap, cfg.Email.From, cfg.Email.FromName, &http.Client{Timeout: cfg.Email.Timeout}), nil
	default:
		return nil, fmt.Errorf("unknown EMAIL_DRIVER: %s", cfg.Email.Driver)
	}
}

// LogSender writes messages to the log instead of delivering them. It is the
// development default.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, m Message) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "email_logged",
		slog.String("to", m.To),
		slog.String("subject", m.Subject),
		slog.String("text", m.Text),
	)
	return nil
}
