package partner

import (
	"fmt"

	"tracking/internal/pkg/errs"
)

// VehicleType is the kind of vehicle a delivery partner rides.
type VehicleType string

const (
	Bike    VehicleType = "bike"
	Scooter VehicleType = "scooter"
	Car     VehicleType = "car"
)

// VehicleTypeFromString parses a vehicle type name as it appears on the wire.
func VehicleTypeFromString(s string) (VehicleType, error) {
	v := VehicleType(s)
	if err := v.Validate(); err != nil {
		return "", err
	}
	return v, nil
}

// Validate checks the vehicle type is one of the defined values.
func (v VehicleType) Validate() error {
	switch v {
	case Bike, Scooter, Car:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"vehicle type", fmt.Errorf("%q is not a valid vehicle type", string(v)))
	}
}

// String returns the wire name of the vehicle type.
func (v VehicleType) String() string {
	return string(v)
}
