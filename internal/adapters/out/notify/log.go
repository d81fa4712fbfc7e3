package notify

import (
	"context"
	"log/slog"

	"tracking/internal/core/ports"
)

// LogDispatcher writes notifications to the structured log instead of an
// external channel. It is the default when no webhook endpoint is configured,
// keeping the notification path exercised in development.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that logs notifications.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With("component", "log_dispatcher")}
}

// Dispatch logs the notification at info level. Never fails.
func (d *LogDispatcher) Dispatch(_ context.Context, notification ports.Notification) error {
	d.logger.Info("notification",
		"order_id", notification.OrderID.String(),
		"customer_id", notification.CustomerID.String(),
		"kind", string(notification.Kind),
		"title", notification.Title,
		"body", notification.Body,
	)
	return nil
}
