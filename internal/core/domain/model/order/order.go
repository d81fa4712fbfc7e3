package order

import (
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

// DefaultDeliveryWindow is the estimated time between dispatch and delivery,
// used to compute the estimated delivery timestamp when a partner is assigned.
const DefaultDeliveryWindow = 30 * time.Minute

// Order is the aggregate root for a customer order as seen by the tracking
// core. It owns the status state machine, the assigned delivery partner
// reference, the current location, and the append-only tracking history.
//
// Lifecycle:
//
//	NewOrder      -> Processing, no partner, empty history
//	AssignPartner -> OutForDelivery, partner set, ETA computed
//	Complete      -> Delivered (terminal), partner reference retained
//	Cancel        -> Cancelled (terminal), partner reference cleared
//
// The aggregate enforces its own invariants; callers persist it through a
// repository and must not mutate it concurrently.
type Order struct {
	guard guard.ConstructorGuard

	id         kernel.UUID
	customerID kernel.UUID
	status     Status

	partnerID *kernel.UUID
	location  *kernel.GeoPoint

	restaurantLocation kernel.GeoPoint
	deliveryLocation   kernel.GeoPoint

	estimatedDelivery *time.Time
	deliveredAt       *time.Time

	history []TrackingEvent

	createdAt time.Time
	updatedAt time.Time

	// version is the persisted version used for optimistic concurrency.
	// The repository bumps it on each successful save; in-memory mutations
	// leave it untouched so a save can compare against the loaded value.
	version int64
}

// NewOrder creates an order in Processing status with an empty tracking history.
//
// Parameters:
//   - id: order identity, typically generated by the command.
//   - customerID: identity of the ordering customer.
//   - restaurantLocation: pickup coordinates, the simulation start point.
//   - deliveryLocation: drop-off coordinates.
//
// Returns an error when any argument fails validation.
func NewOrder(id, customerID kernel.UUID, restaurantLocation, deliveryLocation kernel.GeoPoint) (*Order, error) {
	var err error
	err = errors.Join(err, id.Validate())
	err = errors.Join(err, customerID.Validate())
	err = errors.Join(err, restaurantLocation.Validate())
	err = errors.Join(err, deliveryLocation.Validate())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Order{
		guard:              guard.NewConstructorGuard(),
		id:                 id,
		customerID:         customerID,
		status:             Processing,
		restaurantLocation: restaurantLocation,
		deliveryLocation:   deliveryLocation,
		history:            []TrackingEvent{},
		createdAt:          now,
		updatedAt:          now,
		version:            1,
	}, nil
}

// RestoreOrder reconstructs an order from persistent storage.
// It bypasses lifecycle rules but still validates structural invariants.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	status Status,
	partnerID *kernel.UUID,
	location *kernel.GeoPoint,
	restaurantLocation kernel.GeoPoint,
	deliveryLocation kernel.GeoPoint,
	estimatedDelivery *time.Time,
	deliveredAt *time.Time,
	history []TrackingEvent,
	createdAt time.Time,
	updatedAt time.Time,
	version int64,
) (*Order, error) {
	var err error
	err = errors.Join(err, id.Validate())
	err = errors.Join(err, customerID.Validate())
	err = errors.Join(err, status.Validate())
	err = errors.Join(err, restaurantLocation.Validate())
	err = errors.Join(err, deliveryLocation.Validate())
	if partnerID != nil {
		err = errors.Join(err, partnerID.Validate())
	}
	if location != nil {
		err = errors.Join(err, location.Validate())
	}
	if version < 1 {
		err = errors.Join(err, errs.NewValueIsInvalidError("version"))
	}
	if err != nil {
		return nil, err
	}

	if history == nil {
		history = []TrackingEvent{}
	}

	return &Order{
		guard:              guard.NewConstructorGuard(),
		id:                 id,
		customerID:         customerID,
		status:             status,
		partnerID:          partnerID,
		location:           location,
		restaurantLocation: restaurantLocation,
		deliveryLocation:   deliveryLocation,
		estimatedDelivery:  estimatedDelivery,
		deliveredAt:        deliveredAt,
		history:            history,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		version:            version,
	}, nil
}

// Validate reports whether the order was built through a constructor.
func (o *Order) Validate() error {
	return o.guard.Validate(errs.NewValueIsRequiredError("order"))
}

// ID returns the order identity.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerID returns the identity of the ordering customer.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// PartnerID returns the assigned delivery partner's identity, or nil when no
// partner is assigned. After delivery the reference is retained for history;
// after cancellation it is cleared.
func (o *Order) PartnerID() *kernel.UUID { return o.partnerID }

// Location returns the last reported position, or nil before the first ping.
func (o *Order) Location() *kernel.GeoPoint { return o.location }

// RestaurantLocation returns the pickup coordinates.
func (o *Order) RestaurantLocation() kernel.GeoPoint { return o.restaurantLocation }

// DeliveryLocation returns the drop-off coordinates.
func (o *Order) DeliveryLocation() kernel.GeoPoint { return o.deliveryLocation }

// EstimatedDelivery returns the computed ETA, or nil before dispatch.
func (o *Order) EstimatedDelivery() *time.Time { return o.estimatedDelivery }

// DeliveredAt returns the delivery timestamp, or nil if not delivered.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// CreatedAt returns when the order was created.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns when the order last changed.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Version returns the version the order was loaded at.
// The repository compares it on save and bumps it after a successful write.
func (o *Order) Version() int64 { return o.version }

// History returns a copy of the tracking history in append order.
// Mutating the returned slice does not affect the aggregate.
func (o *Order) History() []TrackingEvent {
	out := make([]TrackingEvent, len(o.history))
	copy(out, o.history)
	return out
}

// NewEvents returns the events appended since the aggregate was loaded,
// given the number of events that were already persisted.
func (o *Order) NewEvents(persisted int) []TrackingEvent {
	if persisted >= len(o.history) {
		return nil
	}
	out := make([]TrackingEvent, len(o.history)-persisted)
	copy(out, o.history[persisted:])
	return out
}

// AssignPartner dispatches the order with the given delivery partner.
//
// Effects, applied atomically on the aggregate:
//   - status transitions Processing -> OutForDelivery
//   - the partner reference is set
//   - the estimated delivery time is computed from now
//   - PartnerAssigned and StatusChange events are appended
//
// Returns InvalidTransitionError when the order is not in Processing.
func (o *Order) AssignPartner(partner PartnerPayload) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next, err := o.status.TransitionTo(OutForDelivery)
	if err != nil {
		return err
	}

	partnerID, err := kernel.UUIDFromString(partner.PartnerID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	eta := now.Add(DefaultDeliveryWindow)

	assigned, err := NewPartnerAssignedEvent(partner, now)
	if err != nil {
		return err
	}
	statusEvt, err := NewStatusChangeEvent(next, "Partner assigned, order is out for delivery", now)
	if err != nil {
		return err
	}

	o.status = next
	o.partnerID = &partnerID
	o.estimatedDelivery = &eta
	o.appendEvents(now, assigned, statusEvt)

	return nil
}

// Transition moves the order to the target status through the state machine.
// Delivered is handled by Complete so that the delivery timestamp and
// completion event stay on one code path; Cancelled goes through Cancel.
// OutForDelivery cannot be reached here: dispatch requires a partner and
// goes through AssignPartner.
func (o *Order) Transition(target Status, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	switch target {
	case Delivered:
		return o.Complete(note)
	case Cancelled:
		return o.Cancel(note)
	case OutForDelivery:
		return errs.NewValueIsInvalidErrorWithCause("status",
			errors.New("dispatch requires a partner, use AssignPartner"))
	default:
		if err := target.Validate(); err != nil {
			return err
		}
		return &InvalidTransitionError{From: o.status, To: target}
	}
}

// Complete marks the order as delivered.
// The partner reference is kept for history; the caller is responsible for
// releasing the partner aggregate in the same unit of work.
func (o *Order) Complete(note string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next, err := o.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	o.status = next
	o.deliveredAt = &now
	o.appendEvents(now, NewDeliveryCompleteEvent(note, now))

	return nil
}

// Cancel marks the order as cancelled and clears the partner reference.
// The caller releases the partner aggregate in the same unit of work.
func (o *Order) Cancel(note string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next, err := o.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	evt, err := NewStatusChangeEvent(next, note, now)
	if err != nil {
		return err
	}

	o.status = next
	o.partnerID = nil
	o.appendEvents(now, evt)

	return nil
}

// RecordLocation appends a position ping to the tracking history and updates
// the current location. Pings are accepted in any non-terminal or terminal
// status: late pings after delivery still land in the history unchanged.
func (o *Order) RecordLocation(point kernel.GeoPoint) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	evt, err := NewLocationEvent(point, now)
	if err != nil {
		return err
	}

	o.location = &point
	o.appendEvents(now, evt)

	return nil
}

func (o *Order) appendEvents(at time.Time, events ...TrackingEvent) {
	o.history = append(o.history, events...)
	o.updatedAt = at
}
