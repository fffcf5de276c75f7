package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/config"
)

// MailtrapProvider posts to the Mailtrap send API.
type MailtrapProvider struct {
	apiURL   string
	apiToken string
	from     PersonInfo
	http     *http.Client
}

type MailtrapPayload struct {
	From     PersonInfo   `json:"from"`
	To       []PersonInfo `json:"to"`
	Subject  string       `json:"subject"`
	Text     string       `json:"text,omitempty"`
	HTML     string       `json:"html,omitempty"`
	Category string       `json:"category,omitempty"`
}

type PersonInfo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func NewMailtrapProvider(cfg config.MailtrapConfig, fromAddr, fromName string, hc *http.Client) *MailtrapProvider {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &MailtrapProvider{
		apiURL:   cfg.APIURL,
		apiToken: cfg.APIToken,
		from:     PersonInfo{Email: fromAddr, Name: fromName},
		http:     hc,
	}
}

func (p *MailtrapProvider) Send(ctx context.Context, m Message) error {
	if p.apiURL == "" || p.apiToken == "" {
		return fmt.Errorf("mailtrap credentials not configured")
	}

	body, err := json.Marshal(MailtrapPayload{
		From:     p.from,
		To:       []PersonInfo{{Email: m.To, Name: m.ToName}},
		Subject:  m.Subject,
		Text:     m.Text,
		HTML:     m.HTML,
		Category: "Order Confirmation",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("mailtrap request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return fmt.Errorf("mailtrap API error: %d %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
