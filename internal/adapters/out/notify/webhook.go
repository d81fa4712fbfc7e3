// Package notify provides NotificationDispatcher implementations for
// milestone notifications: a webhook dispatcher for external delivery and a
// log dispatcher for environments without a notification backend.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"
)

// defaultTimeout bounds a single webhook delivery attempt.
const defaultTimeout = 5 * time.Second

// webhookPayload is the wire form of a notification.
type webhookPayload struct {
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// WebhookDispatcher delivers notifications by POSTing JSON to a configured
// endpoint. Delivery is fire-and-forget from the caller's point of view:
// callers log and swallow errors.
type WebhookDispatcher struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhookDispatcher creates a dispatcher for the given endpoint URL.
func NewWebhookDispatcher(url string, logger *slog.Logger) (*WebhookDispatcher, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("webhook url")
	}

	return &WebhookDispatcher{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger.With("component", "webhook_dispatcher"),
	}, nil
}

// Dispatch POSTs the notification to the endpoint.
// Any status outside 2xx is an error.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, notification ports.Notification) error {
	body, err := json.Marshal(webhookPayload{
		OrderID:    notification.OrderID.String(),
		CustomerID: notification.CustomerID.String(),
		Kind:       string(notification.Kind),
		Title:      notification.Title,
		Body:       notification.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	d.logger.Debug("notification delivered",
		"order_id", notification.OrderID.String(), "kind", string(notification.Kind))

	return nil
}
