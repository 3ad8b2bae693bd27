// Package delivery implements clients for the push and email collaborators.
//
// Both collaborators are opaque HTTP boundaries: a JSON payload, a credential
// header, and a success/failure result per call. Neither client retries.
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

// Notification is one push message addressed to a device token.
type Notification struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// PushSender delivers push notifications. Implementations are fire-and-forget:
// a returned error means this one attempt failed, nothing more.
type PushSender interface {
	Send(ctx context.Context, n Notification) error
}

// FCMClient sends notifications through the FCM HTTP endpoint.
type FCMClient struct {
	url       string
	serverKey string
	client    *http.Client
}

// NewFCMClient creates a push client for the given endpoint and server key.
func NewFCMClient(url, serverKey string) *FCMClient {
	return &FCMClient{
		url:       url,
		serverKey: serverKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send posts one notification. Non-2xx responses are errors.
func (c *FCMClient) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(fcmMessage{
		To:           n.Token,
		Notification: fcmNotification{Title: n.Title, Body: n.Body},
		Data:         n.Data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push delivery failed (status %d): %s", resp.StatusCode, body)
	}

	return nil
}
