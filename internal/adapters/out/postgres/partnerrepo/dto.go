// Package partnerrepo provides data transfer objects and mapping functions
// for delivery partner persistence.
package partnerrepo

import (
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO represents the database structure for persisting delivery
// partner aggregates. Status is stored by name; the version column backs
// the optimistic concurrency check.
type PartnerDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Phone         string    `gorm:"type:varchar(32);not null"`
	VehicleNumber string    `gorm:"type:varchar(32);not null"`
	VehicleType   string    `gorm:"type:varchar(16);not null"`
	Rating        float64   `gorm:"not null"`

	Status        string     `gorm:"type:varchar(32);not null;index"`
	ActiveOrderID *uuid.UUID `gorm:"type:uuid;index"`

	LocationLat *float64
	LocationLng *float64

	TotalDeliveries int64 `gorm:"not null"`

	LastSeenAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
	Version    int64     `gorm:"not null"`
}

// TableName specifies the database table name for partner entities.
func (PartnerDTO) TableName() string {
	return "partners"
}

// fromDomain converts a partner aggregate to its database representation.
func fromDomain(aggregate *partner.DeliveryPartner) PartnerDTO {
	var activeOrderID *uuid.UUID
	if id := aggregate.ActiveOrderID(); id != nil {
		raw := id.Bytes()
		activeOrderID = &raw
	}

	var locationLat, locationLng *float64
	if loc := aggregate.Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		locationLat, locationLng = &lat, &lng
	}

	return PartnerDTO{
		ID:              aggregate.ID().Bytes(),
		Name:            aggregate.Name(),
		Phone:           aggregate.Phone(),
		VehicleNumber:   aggregate.VehicleNumber(),
		VehicleType:     aggregate.VehicleType().String(),
		Rating:          aggregate.Rating(),
		Status:          aggregate.Status().String(),
		ActiveOrderID:   activeOrderID,
		LocationLat:     locationLat,
		LocationLng:     locationLng,
		TotalDeliveries: aggregate.TotalDeliveries(),
		LastSeenAt:      aggregate.LastSeenAt(),
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
		Version:         aggregate.Version(),
	}
}

// toDomain converts a database row to a partner aggregate.
func toDomain(dto PartnerDTO) (*partner.DeliveryPartner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vehicleType, err := partner.VehicleTypeFromString(dto.VehicleType)
	if err != nil {
		return nil, err
	}

	status, err := partner.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var activeOrderID *kernel.UUID
	if dto.ActiveOrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.ActiveOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		activeOrderID = &oID
	}

	var location *kernel.GeoPoint
	if dto.LocationLat != nil && dto.LocationLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.LocationLat, *dto.LocationLng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return partner.RestoreDeliveryPartner(
		id, dto.Name, dto.Phone, dto.VehicleNumber,
		vehicleType, dto.Rating, status, activeOrderID, location,
		dto.TotalDeliveries,
		dto.LastSeenAt, dto.CreatedAt, dto.UpdatedAt,
		dto.Version,
	)
}
