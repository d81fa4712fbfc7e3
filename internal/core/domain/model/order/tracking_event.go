package order

import (
	"encoding/json"
	"fmt"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
)

// EventKind identifies the type of a tracking event and determines the shape
// of its payload. The kind/payload pairing is a tagged variant: serialization
// and handler logic switch exhaustively on the kind.
type EventKind string

const (
	// EventLocationUpdate carries a position ping from the delivery partner
	// or the simulator.
	EventLocationUpdate EventKind = "LocationUpdate"
	// EventStatusChange carries an order status transition.
	EventStatusChange EventKind = "StatusChange"
	// EventPartnerAssigned carries a summary of the assigned delivery partner.
	EventPartnerAssigned EventKind = "PartnerAssigned"
	// EventDeliveryComplete marks the successful end of a delivery.
	EventDeliveryComplete EventKind = "DeliveryComplete"
)

// Validate checks the kind is one of the defined variants.
func (k EventKind) Validate() error {
	switch k {
	case EventLocationUpdate, EventStatusChange, EventPartnerAssigned, EventDeliveryComplete:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"event kind", fmt.Errorf("%q is not a valid event kind", string(k)))
	}
}

// EventPayload is the typed payload of a TrackingEvent.
// Exactly one concrete payload type corresponds to each EventKind.
type EventPayload interface {
	isEventPayload()
}

// LocationPayload is the payload of an EventLocationUpdate event.
type LocationPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (LocationPayload) isEventPayload() {}

// StatusPayload is the payload of EventStatusChange and EventDeliveryComplete events.
type StatusPayload struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

func (StatusPayload) isEventPayload() {}

// PartnerPayload is the payload of an EventPartnerAssigned event.
// It is a summary of the partner, not a reference to the live aggregate.
type PartnerPayload struct {
	PartnerID     string  `json:"partnerId"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone,omitempty"`
	VehicleNumber string  `json:"vehicleNumber,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
}

func (PartnerPayload) isEventPayload() {}

// TrackingEvent is an immutable record of something that happened to an order.
// Events are appended to the order's tracking history in arrival order and
// never modified, truncated, or re-sorted afterwards.
type TrackingEvent struct {
	id        kernel.UUID
	kind      EventKind
	timestamp time.Time
	payload   EventPayload
}

// NewLocationEvent creates a LocationUpdate event for the given point.
func NewLocationEvent(point kernel.GeoPoint, at time.Time) (TrackingEvent, error) {
	if err := point.Validate(); err != nil {
		return TrackingEvent{}, err
	}

	return newEvent(EventLocationUpdate, at, LocationPayload{Lat: point.Lat(), Lng: point.Lng()}), nil
}

// NewStatusChangeEvent creates a StatusChange event for the given status.
func NewStatusChangeEvent(status Status, note string, at time.Time) (TrackingEvent, error) {
	if err := status.Validate(); err != nil {
		return TrackingEvent{}, err
	}

	return newEvent(EventStatusChange, at, StatusPayload{Status: status.String(), Note: note}), nil
}

// NewPartnerAssignedEvent creates a PartnerAssigned event carrying the partner summary.
func NewPartnerAssignedEvent(partner PartnerPayload, at time.Time) (TrackingEvent, error) {
	if partner.PartnerID == "" {
		return TrackingEvent{}, errs.NewValueIsRequiredError("partner id")
	}

	return newEvent(EventPartnerAssigned, at, partner), nil
}

// NewDeliveryCompleteEvent creates a DeliveryComplete event.
func NewDeliveryCompleteEvent(note string, at time.Time) TrackingEvent {
	return newEvent(EventDeliveryComplete, at, StatusPayload{Status: Delivered.String(), Note: note})
}

// RestoreTrackingEvent reconstructs an event from persistent storage.
// The payload must already match the kind; DecodeEventPayload produces it
// from the stored representation.
func RestoreTrackingEvent(id kernel.UUID, kind EventKind, at time.Time, payload EventPayload) (TrackingEvent, error) {
	if err := id.Validate(); err != nil {
		return TrackingEvent{}, err
	}
	if err := kind.Validate(); err != nil {
		return TrackingEvent{}, err
	}

	return TrackingEvent{id: id, kind: kind, timestamp: at, payload: payload}, nil
}

func newEvent(kind EventKind, at time.Time, payload EventPayload) TrackingEvent {
	return TrackingEvent{
		id:        kernel.NewUUID(),
		kind:      kind,
		timestamp: at,
		payload:   payload,
	}
}

// ID returns the stable identity of the event.
func (e TrackingEvent) ID() kernel.UUID {
	return e.id
}

// Kind returns the event kind.
func (e TrackingEvent) Kind() EventKind {
	return e.kind
}

// Timestamp returns when the event occurred.
func (e TrackingEvent) Timestamp() time.Time {
	return e.timestamp
}

// Payload returns the typed payload for this event's kind.
func (e TrackingEvent) Payload() EventPayload {
	return e.payload
}

// MarshalPayload serializes the payload for storage or the wire.
func (e TrackingEvent) MarshalPayload() ([]byte, error) {
	if e.payload == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e.payload)
}

// DecodeEventPayload deserializes a stored payload according to the event kind.
// The switch is exhaustive over the defined kinds.
func DecodeEventPayload(kind EventKind, data []byte) (EventPayload, error) {
	switch kind {
	case EventLocationUpdate:
		var p LocationPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EventStatusChange, EventDeliveryComplete:
		var p StatusPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EventPartnerAssigned:
		var p PartnerPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"event kind", fmt.Errorf("%q is not a valid event kind", string(kind)))
	}
}
