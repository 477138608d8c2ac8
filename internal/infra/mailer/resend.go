package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
)

const defaultResendURL = "https://api.resend.com"

// ResendConfig configures the Resend HTTP provider.
type ResendConfig struct {
	APIKey string
	APIURL string // defaults to the public API
	From   string // e.g. `DevSamp Notifications <noreply@devsamp.io>`
}

// Resend sends through the Resend REST API.
type Resend struct {
	cfg    ResendConfig
	client *http.Client
}

func NewResend(cfg ResendConfig) *Resend {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultResendURL
	}
	return &Resend{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
}

func (r *Resend) Name() string { return "resend" }

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

func (r *Resend) Send(ctx context.Context, msg domain.Message) error {
	body, err := json.Marshal(resendPayload{
		From:    r.cfg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.APIURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
