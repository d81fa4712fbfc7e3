package order

import (
	"errors"
	"fmt"

	"tracking/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel for rejected order status transitions.
// Use errors.Is to classify; the typed InvalidTransitionError carries the
// current and requested statuses.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct delivery workflow.
//
// State transitions:
//
//	Processing ──┬──> OutForDelivery ──┬──> Delivered
//	             │                     │
//	             └──> Cancelled <──────┘
//
// Delivered and Cancelled are terminal: no transition leaves them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Processing is the initial status when an order is first created.
	// Orders in this status are being prepared and have no delivery partner.
	Processing

	// OutForDelivery indicates a delivery partner is carrying the order
	// to the customer.
	OutForDelivery

	// Delivered indicates the order reached the customer.
	// This is a terminal state.
	Delivered

	// Cancelled indicates the order was cancelled before delivery.
	// This is a terminal state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Processing:     "Processing",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Processing:     "Processing",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// StatusFromString parses a status name as it appears on the wire.
// Returns an error for unrecognized names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is valid.
// Valid statuses are Processing, OutForDelivery, Delivered, Cancelled.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer; safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition may leave this status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether the edge s -> target is allowed.
//
// Allowed edges:
//   - Processing -> OutForDelivery
//   - Processing -> Cancelled
//   - OutForDelivery -> Delivered
//   - OutForDelivery -> Cancelled
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case Processing:
		return target == OutForDelivery || target == Cancelled
	case OutForDelivery:
		return target == Delivered || target == Cancelled
	default:
		return false
	}
}

// TransitionTo applies the state machine edge s -> target.
// Returns the new status, or an InvalidTransitionError naming both the
// current and the requested status when the edge is not allowed.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	if !s.CanTransitionTo(target) {
		return Unknown, &InvalidTransitionError{From: s, To: target}
	}

	return target, nil
}

// InvalidTransitionError reports a rejected status transition with both the
// current and the requested status, so callers can surface a specific message.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
