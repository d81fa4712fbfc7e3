package commands

import (
	"context"
	"fmt"
	"log/slog"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/ports"
)

// sideEffects carries the post-commit concerns shared by the write handlers:
// fanning new tracking events out to live subscribers and dispatching
// milestone notifications. Both are best-effort. A failed broadcast or
// notification is logged and swallowed; the state change already committed.
type sideEffects struct {
	publisher  ports.EventPublisher
	dispatcher ports.NotificationDispatcher
	logger     *slog.Logger
}

func newSideEffects(
	publisher ports.EventPublisher,
	dispatcher ports.NotificationDispatcher,
	logger *slog.Logger,
) sideEffects {
	return sideEffects{
		publisher:  publisher,
		dispatcher: dispatcher,
		logger:     logger.With("component", "commands"),
	}
}

// broadcast pushes the given events to the order's room and the customer's
// personal channel.
func (s sideEffects) broadcast(orderID, customerID kernel.UUID, events []order.TrackingEvent) {
	for _, evt := range events {
		if err := s.publisher.PublishOrderEvent(orderID, evt); err != nil {
			s.logger.Debug("order broadcast failed",
				"order_id", orderID.String(), "kind", string(evt.Kind()), "error", err)
		}
		if err := s.publisher.PublishCustomerEvent(customerID, orderID, evt); err != nil {
			s.logger.Debug("customer broadcast failed",
				"customer_id", customerID.String(), "kind", string(evt.Kind()), "error", err)
		}
	}
}

// notify sends milestone notifications for the given events.
// Location pings are deliberately silent.
func (s sideEffects) notify(ctx context.Context, orderID, customerID kernel.UUID, events []order.TrackingEvent) {
	for _, evt := range events {
		notification, ok := notificationFor(orderID, customerID, evt)
		if !ok {
			continue
		}
		if err := s.dispatcher.Dispatch(ctx, notification); err != nil {
			s.logger.Warn("notification dispatch failed",
				"order_id", orderID.String(), "kind", string(evt.Kind()), "error", err)
		}
	}
}

func notificationFor(orderID, customerID kernel.UUID, evt order.TrackingEvent) (ports.Notification, bool) {
	base := ports.Notification{
		OrderID:    orderID,
		CustomerID: customerID,
		Kind:       evt.Kind(),
	}

	switch payload := evt.Payload().(type) {
	case order.PartnerPayload:
		base.Title = "Delivery partner assigned"
		base.Body = fmt.Sprintf("%s is on the way with your order", payload.Name)
		return base, true
	case order.StatusPayload:
		if evt.Kind() == order.EventDeliveryComplete {
			base.Title = "Order delivered"
			base.Body = "Your order has been delivered. Enjoy!"
			return base, true
		}
		base.Title = "Order update"
		base.Body = fmt.Sprintf("Your order is now %s", payload.Status)
		return base, true
	default:
		return ports.Notification{}, false
	}
}
