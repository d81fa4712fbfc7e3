// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the domain model and the relational schema:
// an orders row plus an append-only order_events table holding the tracking
// history.
package orderrepo

import (
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored by name so the read models can filter on it without
// decoding, and the version column backs the optimistic concurrency check.
type OrderDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status     string     `gorm:"type:varchar(32);not null;index"`
	PartnerID  *uuid.UUID `gorm:"type:uuid;index"`

	LocationLat *float64
	LocationLng *float64

	Restaurant GeoDTO `gorm:"embedded;embeddedPrefix:restaurant_"`
	Delivery   GeoDTO `gorm:"embedded;embeddedPrefix:delivery_"`

	EstimatedDelivery *time.Time
	DeliveredAt       *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int64     `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// GeoDTO represents embedded coordinate columns within the orders table.
type GeoDTO struct {
	Lat float64 `gorm:"not null"`
	Lng float64 `gorm:"not null"`
}

// EventDTO represents one tracking history entry. Rows are append-only:
// they are inserted once and never updated. The seq column is assigned by
// the database and fixes the read order.
type EventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind       string    `gorm:"type:varchar(32);not null"`
	OccurredAt time.Time `gorm:"not null"`
	Payload    string    `gorm:"type:jsonb;not null"`
	Seq        int64     `gorm:"autoIncrement"`
}

// TableName specifies the database table name for tracking events.
func (EventDTO) TableName() string {
	return "order_events"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var partnerID *uuid.UUID
	if id := aggregate.PartnerID(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	var locationLat, locationLng *float64
	if loc := aggregate.Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		locationLat, locationLng = &lat, &lng
	}

	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		CustomerID:  aggregate.CustomerID().Bytes(),
		Status:      aggregate.Status().String(),
		PartnerID:   partnerID,
		LocationLat: locationLat,
		LocationLng: locationLng,
		Restaurant: GeoDTO{
			Lat: aggregate.RestaurantLocation().Lat(),
			Lng: aggregate.RestaurantLocation().Lng(),
		},
		Delivery: GeoDTO{
			Lat: aggregate.DeliveryLocation().Lat(),
			Lng: aggregate.DeliveryLocation().Lng(),
		},
		EstimatedDelivery: aggregate.EstimatedDelivery(),
		DeliveredAt:       aggregate.DeliveredAt(),
		CreatedAt:         aggregate.CreatedAt(),
		UpdatedAt:         aggregate.UpdatedAt(),
		Version:           aggregate.Version(),
	}
}

// eventsFromDomain converts tracking events to their database representation.
func eventsFromDomain(orderID kernel.UUID, events []order.TrackingEvent) ([]EventDTO, error) {
	dtos := make([]EventDTO, 0, len(events))
	for _, evt := range events {
		payload, err := evt.MarshalPayload()
		if err != nil {
			return nil, err
		}

		dtos = append(dtos, EventDTO{
			ID:         evt.ID().Bytes(),
			OrderID:    orderID.Bytes(),
			Kind:       string(evt.Kind()),
			OccurredAt: evt.Timestamp(),
			Payload:    string(payload),
		})
	}

	return dtos, nil
}

// toDomain converts database rows to an order aggregate.
// Event rows must already be in seq order; RestoreOrder keeps them as given.
func toDomain(dto OrderDTO, eventDTOs []EventDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, partnerErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}
		partnerID = &pID
	}

	var location *kernel.GeoPoint
	if dto.LocationLat != nil && dto.LocationLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.LocationLat, *dto.LocationLng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	restaurant, err := kernel.NewGeoPoint(dto.Restaurant.Lat, dto.Restaurant.Lng)
	if err != nil {
		return nil, err
	}

	delivery, err := kernel.NewGeoPoint(dto.Delivery.Lat, dto.Delivery.Lng)
	if err != nil {
		return nil, err
	}

	history, err := eventsToDomain(eventDTOs)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, customerID, status, partnerID, location,
		restaurant, delivery,
		dto.EstimatedDelivery, dto.DeliveredAt,
		history,
		dto.CreatedAt, dto.UpdatedAt, dto.Version,
	)
}

// eventsToDomain converts event rows to tracking events.
func eventsToDomain(dtos []EventDTO) ([]order.TrackingEvent, error) {
	events := make([]order.TrackingEvent, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}

		kind := order.EventKind(dto.Kind)
		payload, err := order.DecodeEventPayload(kind, []byte(dto.Payload))
		if err != nil {
			return nil, err
		}

		evt, err := order.RestoreTrackingEvent(id, kind, dto.OccurredAt, payload)
		if err != nil {
			return nil, err
		}

		events = append(events, evt)
	}

	return events, nil
}
