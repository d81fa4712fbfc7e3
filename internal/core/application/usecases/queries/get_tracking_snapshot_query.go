package queries

import (
	"encoding/json"
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/guard"
)

var ErrGetTrackingSnapshotQueryIsNotConstructed = errors.New(
	"GetTrackingSnapshotQuery must be created via NewGetTrackingSnapshotQuery constructor",
)

// GetTrackingSnapshotQuery retrieves the complete current tracking state of
// one order: status, partner summary, last known location, ETA, and the
// full event history. Reconnecting subscribers use the snapshot to resync
// before resuming the live stream, since live delivery is at-most-once.
type GetTrackingSnapshotQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetTrackingSnapshotQuery creates a snapshot query for one order.
func NewGetTrackingSnapshotQuery(orderID kernel.UUID) (GetTrackingSnapshotQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingSnapshotQuery{}, err
	}

	return GetTrackingSnapshotQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingSnapshotQueryIsNotConstructed)
}

// OrderID returns the order the snapshot is requested for.
func (q GetTrackingSnapshotQuery) OrderID() kernel.UUID {
	return q.orderID
}

// SnapshotPartner is the partner summary inside a tracking snapshot.
type SnapshotPartner struct {
	ID            kernel.UUID `json:"id"`
	Name          string      `json:"name"`
	Phone         string      `json:"phone"`
	VehicleNumber string      `json:"vehicleNumber"`
	VehicleType   string      `json:"vehicleType"`
	Rating        float64     `json:"rating"`
	Location      *GeoJSON    `json:"location,omitempty"`
	LastSeenAt    time.Time   `json:"lastSeenAt"`
}

// SnapshotEvent is one tracking history entry inside a snapshot, with the
// payload kept in its stored wire form.
type SnapshotEvent struct {
	Kind      string          `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// GeoJSON is the wire form of a coordinate pair in query responses.
type GeoJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GetTrackingSnapshotQueryResponse is the complete tracking read model for
// one order.
type GetTrackingSnapshotQueryResponse struct {
	OrderID            kernel.UUID      `json:"orderId"`
	Status             string           `json:"status"`
	RestaurantLocation GeoJSON          `json:"restaurantLocation"`
	DeliveryLocation   GeoJSON          `json:"deliveryLocation"`
	CurrentLocation    *GeoJSON         `json:"currentLocation,omitempty"`
	EstimatedDelivery  *time.Time       `json:"estimatedDelivery,omitempty"`
	DeliveredAt        *time.Time       `json:"deliveredAt,omitempty"`
	Partner            *SnapshotPartner `json:"partner,omitempty"`
	History            []SnapshotEvent  `json:"history"`
}
