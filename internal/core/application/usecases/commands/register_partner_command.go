package commands

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/partner"
	"tracking/internal/pkg/guard"
)

var ErrRegisterPartnerCommandIsNotConstructed = errors.New(
	"RegisterPartnerCommand must be created via NewRegisterPartnerCommand constructor",
)

// RegisterPartnerCommand represents a request to register a new delivery
// partner. Partners start Offline and report for duty separately.
type RegisterPartnerCommand struct { //nolint:recvcheck //using for validation
	partnerID     kernel.UUID
	name          string
	phone         string
	vehicleNumber string
	vehicleType   partner.VehicleType

	guard guard.ConstructorGuard
}

// NewRegisterPartnerCommand creates a command to register a delivery partner.
// Automatically generates the partner identity. Field validation is deferred
// to the aggregate constructor; only the vehicle type is checked up front so
// bad wire values fail before a transaction is opened.
func NewRegisterPartnerCommand(
	name, phone, vehicleNumber string, vehicleType partner.VehicleType,
) (RegisterPartnerCommand, error) {
	if err := vehicleType.Validate(); err != nil {
		return RegisterPartnerCommand{}, err
	}

	return RegisterPartnerCommand{
		partnerID:     kernel.NewUUID(),
		name:          name,
		phone:         phone,
		vehicleNumber: vehicleNumber,
		vehicleType:   vehicleType,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterPartnerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPartnerCommandIsNotConstructed)
}

// PartnerID returns the generated partner identity.
func (c RegisterPartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Name returns the partner display name.
func (c RegisterPartnerCommand) Name() string {
	return c.name
}

// Phone returns the partner contact number.
func (c RegisterPartnerCommand) Phone() string {
	return c.phone
}

// VehicleNumber returns the vehicle registration.
func (c RegisterPartnerCommand) VehicleNumber() string {
	return c.vehicleNumber
}

// VehicleType returns the kind of vehicle.
func (c RegisterPartnerCommand) VehicleType() partner.VehicleType {
	return c.vehicleType
}
