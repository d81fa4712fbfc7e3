package hub

import (
	"encoding/json"
	"time"

	"tracking/internal/core/domain/model/order"
)

// Envelope is the wire form of a tracking event as seen by live subscribers.
// The payload keeps the shape of the domain event payload; the envelope adds
// the routing fields a client needs to update its view.
type Envelope struct {
	OrderID   string          `json:"orderId"`
	Kind      order.EventKind `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a domain event for the given order.
func NewEnvelope(orderID string, event order.TrackingEvent) (Envelope, error) {
	payload, err := event.MarshalPayload()
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		OrderID:   orderID,
		Kind:      event.Kind(),
		Timestamp: event.Timestamp(),
		Payload:   payload,
	}, nil
}
