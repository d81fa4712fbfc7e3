package partner

import (
	"errors"
	"fmt"

	"tracking/internal/pkg/errs"
)

// ErrPartnerUnavailable is the sentinel for assignment attempts against a
// partner that is not free to take an order. The typed PartnerUnavailableError
// carries the partner identity and its current status.
var ErrPartnerUnavailable = errors.New("partner unavailable")

// ErrInvalidTransition is the sentinel for rejected availability changes.
// Use errors.Is to classify; the typed InvalidTransitionError carries both
// ends of the transition.
var ErrInvalidTransition = errors.New("invalid partner status transition")

// Status represents the availability state of a delivery partner.
//
// Transitions:
//
//	Offline <──> Available ──> Busy ──> Available
//
// Busy is entered only through order assignment and left only through
// delivery completion or release; it is never set directly.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Offline means the partner is not accepting orders.
	// Partners start Offline until they report for duty.
	Offline

	// Available means the partner is on duty and free for assignment.
	Available

	// Busy means the partner is carrying exactly one active order.
	Busy
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Offline:       "Offline",
		Available:     "Available",
		Busy:          "Busy",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Offline:   "Offline",
		Available: "Available",
		Busy:      "Busy",
	}
}

// StatusFromString parses a status name as it appears on the wire.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"partner status", fmt.Errorf("%q is not a valid partner status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"partner status", fmt.Errorf("%d is not a valid partner status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// PartnerUnavailableError reports an assignment attempt against a partner
// that is Offline or already Busy.
type PartnerUnavailableError struct {
	PartnerID string
	Status    Status
}

func (e *PartnerUnavailableError) Error() string {
	return fmt.Sprintf("partner unavailable: %s is %s", e.PartnerID, e.Status)
}

func (e *PartnerUnavailableError) Unwrap() error {
	return ErrPartnerUnavailable
}

// InvalidTransitionError reports a rejected availability change with both
// the current and the requested status.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid partner status transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
