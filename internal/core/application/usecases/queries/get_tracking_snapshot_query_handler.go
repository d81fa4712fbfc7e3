package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTrackingSnapshotQueryHandler assembles the tracking snapshot with two
// raw reads: the order row joined with its partner, then the event history
// in append order.
type GetTrackingSnapshotQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingSnapshotQueryHandler creates a handler for snapshot queries.
func NewGetTrackingSnapshotQueryHandler(db *gorm.DB) GetTrackingSnapshotQueryHandler {
	return GetTrackingSnapshotQueryHandler{db: db}
}

// Handle executes the snapshot query.
// Returns errs.ObjectNotFoundError when the order does not exist.
func (h GetTrackingSnapshotQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingSnapshotQuery,
) (GetTrackingSnapshotQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingSnapshotQueryResponse{}, err
	}

	response, err := h.readOrderRow(ctx, query.OrderID())
	if err != nil {
		return GetTrackingSnapshotQueryResponse{}, err
	}

	history, err := h.readHistory(ctx, query.OrderID())
	if err != nil {
		return GetTrackingSnapshotQueryResponse{}, err
	}
	response.History = history

	return response, nil
}

func (h GetTrackingSnapshotQueryHandler) readOrderRow(
	ctx context.Context, orderID kernel.UUID,
) (GetTrackingSnapshotQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.status,
			o.restaurant_lat, o.restaurant_lng,
			o.delivery_lat, o.delivery_lng,
			o.location_lat, o.location_lng,
			o.estimated_delivery,
			o.delivered_at,
			p.id, p.name, p.phone, p.vehicle_number, p.vehicle_type,
			p.rating, p.location_lat, p.location_lng, p.last_seen_at
		FROM orders o
		LEFT JOIN partners p ON p.id = o.partner_id
		WHERE o.id = ?
	`, orderID.Bytes()).Row()

	var (
		response               GetTrackingSnapshotQueryResponse
		currentLat, currentLng *float64
		partnerID              *uuid.UUID
		partnerName            *string
		partnerPhone           *string
		partnerVehicle         *string
		partnerVehicleType     *string
		partnerRating          *float64
		partnerLat, partnerLng *float64
		partnerLastSeen        *time.Time
	)

	err := row.Scan(
		&response.Status,
		&response.RestaurantLocation.Lat, &response.RestaurantLocation.Lng,
		&response.DeliveryLocation.Lat, &response.DeliveryLocation.Lng,
		&currentLat, &currentLng,
		&response.EstimatedDelivery,
		&response.DeliveredAt,
		&partnerID, &partnerName, &partnerPhone, &partnerVehicle, &partnerVehicleType,
		&partnerRating, &partnerLat, &partnerLng, &partnerLastSeen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetTrackingSnapshotQueryResponse{},
			errs.NewObjectNotFoundErrorWithCause("order", orderID.String(), err)
	}
	if err != nil {
		return GetTrackingSnapshotQueryResponse{}, err
	}

	response.OrderID = orderID

	if currentLat != nil && currentLng != nil {
		response.CurrentLocation = &GeoJSON{Lat: *currentLat, Lng: *currentLng}
	}

	if partnerID != nil {
		id, idErr := kernel.UUIDFromBytes(partnerID[:])
		if idErr != nil {
			return GetTrackingSnapshotQueryResponse{}, idErr
		}
		snapshotPartner := &SnapshotPartner{
			ID:            id,
			Name:          *partnerName,
			Phone:         *partnerPhone,
			VehicleNumber: *partnerVehicle,
			VehicleType:   *partnerVehicleType,
			Rating:        *partnerRating,
			LastSeenAt:    *partnerLastSeen,
		}
		if partnerLat != nil && partnerLng != nil {
			snapshotPartner.Location = &GeoJSON{Lat: *partnerLat, Lng: *partnerLng}
		}
		response.Partner = snapshotPartner
	}

	return response, nil
}

func (h GetTrackingSnapshotQueryHandler) readHistory(
	ctx context.Context, orderID kernel.UUID,
) ([]SnapshotEvent, error) {
	history := make([]SnapshotEvent, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT kind, occurred_at, payload
		FROM order_events
		WHERE order_id = ?
		ORDER BY seq
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event SnapshotEvent
		if err = rows.Scan(&event.Kind, &event.Timestamp, &event.Payload); err != nil {
			return nil, err
		}
		history = append(history, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
