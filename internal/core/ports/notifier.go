package ports

import (
	"context"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
)

// Notification is an out-of-band message about an order milestone,
// delivered outside the live tracking stream (push, SMS, webhook).
type Notification struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	Kind       order.EventKind
	Title      string
	Body       string
}

// NotificationDispatcher sends milestone notifications to external channels.
// Dispatch failures are logged and swallowed by callers: notifications never
// fail an order operation.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification Notification) error
}
