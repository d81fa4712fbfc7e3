package queries

import (
	"context"

	"tracking/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailablePartnersQueryHandler reads the available partner list straight
// from the database, sorted best-rated first.
type GetAvailablePartnersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailablePartnersQueryHandler creates a handler for partner availability queries.
func NewGetAvailablePartnersQueryHandler(db *gorm.DB) GetAvailablePartnersQueryHandler {
	return GetAvailablePartnersQueryHandler{db: db}
}

// Handle executes the query.
func (h GetAvailablePartnersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailablePartnersQuery,
) ([]GetAvailablePartnersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	partners := make([]GetAvailablePartnersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone,
			vehicle_number,
			vehicle_type,
			rating,
			location_lat,
			location_lng
		FROM partners
		WHERE status = 'Available' AND active_order_id IS NULL
		ORDER BY rating DESC, name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetAvailablePartnersQueryResponse
		var id uuid.UUID
		var lat, lng *float64

		err = rows.Scan(
			&id,
			&response.Name,
			&response.Phone,
			&response.VehicleNumber,
			&response.VehicleType,
			&response.Rating,
			&lat,
			&lng,
		)
		if err != nil {
			return nil, err
		}

		partnerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ID = partnerID

		if lat != nil && lng != nil {
			point, pointErr := kernel.NewGeoPoint(*lat, *lng)
			if pointErr != nil {
				return nil, pointErr
			}
			response.Location = &point
		}

		partners = append(partners, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return partners, nil
}
