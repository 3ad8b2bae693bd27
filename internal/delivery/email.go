package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Email is one outgoing message with an HTML body.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email. Same fire-and-forget contract as PushSender.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// APIMailer sends email through a transactional mail HTTP API.
type APIMailer struct {
	url    string
	apiKey string
	client *http.Client
}

// NewAPIMailer creates a mail client for the given endpoint and API key.
func NewAPIMailer(url, apiKey string) *APIMailer {
	return &APIMailer{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send posts one email. Non-2xx responses are errors.
func (m *APIMailer) Send(ctx context.Context, email Email) error {
	payload, err := json.Marshal(mailMessage{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mail delivery failed (status %d): %s", resp.StatusCode, body)
	}

	return nil
}
