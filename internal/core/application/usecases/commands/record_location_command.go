package commands

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/guard"
)

var ErrRecordLocationCommandIsNotConstructed = errors.New(
	"RecordLocationCommand must be created via NewRecordLocationCommand constructor",
)

// RecordLocationCommand represents one position ping for an order, reported
// by the delivery partner's device or by the route simulator. When the
// reporting partner is known, its own last position is refreshed too.
//
// Pings are status-independent: a late ping arriving after delivery is still
// appended to the tracking history as-is.
type RecordLocationCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	point     kernel.GeoPoint
	partnerID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewRecordLocationCommand creates a command to record a position ping.
// partnerID is optional; pass nil for simulated pings.
func NewRecordLocationCommand(
	orderID kernel.UUID, point kernel.GeoPoint, partnerID *kernel.UUID,
) (RecordLocationCommand, error) {
	err := errors.Join(orderID.Validate(), point.Validate())
	if partnerID != nil {
		err = errors.Join(err, partnerID.Validate())
	}
	if err != nil {
		return RecordLocationCommand{}, err
	}

	return RecordLocationCommand{
		orderID:   orderID,
		point:     point,
		partnerID: partnerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecordLocationCommandIsNotConstructed)
}

// OrderID returns the order the ping belongs to.
func (c RecordLocationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Point returns the reported position.
func (c RecordLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

// PartnerID returns the reporting partner, or nil for simulated pings.
func (c RecordLocationCommand) PartnerID() *kernel.UUID {
	return c.partnerID
}
