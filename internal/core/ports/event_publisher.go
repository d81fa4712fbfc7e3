package ports

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
)

// ErrBroadcastFailure indicates an event could not be handed to the
// broadcast layer, for example because it has shut down. Command handlers
// treat this as non-fatal: state changes commit regardless of whether the
// broadcast went out.
var ErrBroadcastFailure = errors.New("broadcast failure")

// EventPublisher fans tracking events out to live subscribers.
// Publishing is best-effort and must never block the caller: slow consumers
// lose old events, they do not slow the command path down.
type EventPublisher interface {
	// PublishOrderEvent delivers the event to every subscriber of the order.
	PublishOrderEvent(orderID kernel.UUID, event order.TrackingEvent) error

	// PublishCustomerEvent delivers the event to the customer's personal
	// channel, regardless of which order it concerns.
	PublishCustomerEvent(customerID kernel.UUID, orderID kernel.UUID, event order.TrackingEvent) error
}
