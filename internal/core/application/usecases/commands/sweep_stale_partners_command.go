package commands

import (
	"errors"
	"time"

	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrSweepStalePartnersCommandIsNotConstructed = errors.New(
	"SweepStalePartnersCommand must be created via NewSweepStalePartnersCommand constructor",
)

// SweepStalePartnersCommand forces delivery partners offline when they have
// not pinged within the staleness window. Busy partners are exempt: an
// in-flight delivery keeps its partner regardless of ping age.
type SweepStalePartnersCommand struct {
	staleAfter time.Duration

	guard guard.ConstructorGuard
}

// NewSweepStalePartnersCommand creates a sweep command with the given
// staleness window.
func NewSweepStalePartnersCommand(staleAfter time.Duration) (SweepStalePartnersCommand, error) {
	if staleAfter <= 0 {
		return SweepStalePartnersCommand{}, errs.NewValueIsInvalidError("stale after")
	}

	return SweepStalePartnersCommand{
		staleAfter: staleAfter,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SweepStalePartnersCommand) Validate() error {
	return c.guard.Validate(ErrSweepStalePartnersCommandIsNotConstructed)
}

// StaleAfter returns the staleness window.
func (c SweepStalePartnersCommand) StaleAfter() time.Duration {
	return c.staleAfter
}
