package commands

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/partner"
	"tracking/internal/pkg/guard"
)

var ErrSetPartnerAvailabilityCommandIsNotConstructed = errors.New(
	"SetPartnerAvailabilityCommand must be created via NewSetPartnerAvailabilityCommand constructor",
)

// SetPartnerAvailabilityCommand is a partner's self-service duty toggle
// between Offline and Available. Busy is not a legal target; it is entered
// only through assignment.
type SetPartnerAvailabilityCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	target    partner.Status

	guard guard.ConstructorGuard
}

// NewSetPartnerAvailabilityCommand creates a command to change a partner's
// availability.
func NewSetPartnerAvailabilityCommand(
	partnerID kernel.UUID, target partner.Status,
) (SetPartnerAvailabilityCommand, error) {
	if err := errors.Join(partnerID.Validate(), target.Validate()); err != nil {
		return SetPartnerAvailabilityCommand{}, err
	}

	return SetPartnerAvailabilityCommand{
		partnerID: partnerID,
		target:    target,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetPartnerAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetPartnerAvailabilityCommandIsNotConstructed)
}

// PartnerID returns the partner changing availability.
func (c SetPartnerAvailabilityCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Target returns the requested availability status.
func (c SetPartnerAvailabilityCommand) Target() partner.Status {
	return c.target
}
