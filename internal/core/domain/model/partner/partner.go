package partner

import (
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

// DefaultRating is the rating a delivery partner starts with.
const DefaultRating = 5.0

const (
	minRating = 0.0
	maxRating = 5.0
)

// DeliveryPartner is the aggregate root for a rider working deliveries.
//
// Core invariant: the partner is Busy if and only if it holds an active
// order reference. Assign sets both together; CompleteDelivery and Release
// clear both together. There is no way to observe one without the other.
type DeliveryPartner struct {
	guard guard.ConstructorGuard

	id            kernel.UUID
	name          string
	phone         string
	vehicleNumber string
	vehicleType   VehicleType
	rating        float64

	status        Status
	activeOrderID *kernel.UUID
	location      *kernel.GeoPoint

	totalDeliveries int64

	lastSeenAt time.Time
	createdAt  time.Time
	updatedAt  time.Time

	// version is the persisted version used for optimistic concurrency.
	// The repository bumps it on each successful save.
	version int64
}

// NewDeliveryPartner registers a partner. New partners start Offline with a
// clean delivery record and the default rating; they become assignable only
// after reporting Available.
//
// Parameters:
//   - id: partner identity, typically generated by the command.
//   - name: display name, required.
//   - phone: contact number, required.
//   - vehicleNumber: vehicle registration, required.
//   - vehicleType: one of Bike, Scooter, Car.
func NewDeliveryPartner(id kernel.UUID, name, phone, vehicleNumber string, vehicleType VehicleType) (*DeliveryPartner, error) {
	var err error
	err = errors.Join(err, id.Validate())
	if name == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("name"))
	}
	if phone == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("phone"))
	}
	if vehicleNumber == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("vehicle number"))
	}
	err = errors.Join(err, vehicleType.Validate())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &DeliveryPartner{
		guard:         guard.NewConstructorGuard(),
		id:            id,
		name:          name,
		phone:         phone,
		vehicleNumber: vehicleNumber,
		vehicleType:   vehicleType,
		rating:        DefaultRating,
		status:        Offline,
		lastSeenAt:    now,
		createdAt:     now,
		updatedAt:     now,
		version:       1,
	}, nil
}

// RestoreDeliveryPartner reconstructs a partner from persistent storage.
func RestoreDeliveryPartner(
	id kernel.UUID,
	name, phone, vehicleNumber string,
	vehicleType VehicleType,
	rating float64,
	status Status,
	activeOrderID *kernel.UUID,
	location *kernel.GeoPoint,
	totalDeliveries int64,
	lastSeenAt, createdAt, updatedAt time.Time,
	version int64,
) (*DeliveryPartner, error) {
	var err error
	err = errors.Join(err, id.Validate())
	err = errors.Join(err, status.Validate())
	err = errors.Join(err, vehicleType.Validate())
	if name == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("name"))
	}
	if rating < minRating || rating > maxRating {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("rating", rating, minRating, maxRating))
	}
	if activeOrderID != nil {
		err = errors.Join(err, activeOrderID.Validate())
	}
	if location != nil {
		err = errors.Join(err, location.Validate())
	}
	if (status == Busy) != (activeOrderID != nil) {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("partner",
			errors.New("busy status and active order reference must be set together")))
	}
	if totalDeliveries < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidError("total deliveries"))
	}
	if version < 1 {
		err = errors.Join(err, errs.NewValueIsInvalidError("version"))
	}
	if err != nil {
		return nil, err
	}

	return &DeliveryPartner{
		guard:           guard.NewConstructorGuard(),
		id:              id,
		name:            name,
		phone:           phone,
		vehicleNumber:   vehicleNumber,
		vehicleType:     vehicleType,
		rating:          rating,
		status:          status,
		activeOrderID:   activeOrderID,
		location:        location,
		totalDeliveries: totalDeliveries,
		lastSeenAt:      lastSeenAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		version:         version,
	}, nil
}

// Validate reports whether the partner was built through a constructor.
func (p *DeliveryPartner) Validate() error {
	return p.guard.Validate(errs.NewValueIsRequiredError("delivery partner"))
}

// ID returns the partner identity.
func (p *DeliveryPartner) ID() kernel.UUID { return p.id }

// Name returns the display name.
func (p *DeliveryPartner) Name() string { return p.name }

// Phone returns the contact number.
func (p *DeliveryPartner) Phone() string { return p.phone }

// VehicleNumber returns the vehicle registration.
func (p *DeliveryPartner) VehicleNumber() string { return p.vehicleNumber }

// VehicleType returns the kind of vehicle the partner rides.
func (p *DeliveryPartner) VehicleType() VehicleType { return p.vehicleType }

// Rating returns the current rating in [0, 5].
func (p *DeliveryPartner) Rating() float64 { return p.rating }

// Status returns the availability status.
func (p *DeliveryPartner) Status() Status { return p.status }

// ActiveOrderID returns the active order reference, or nil when the partner
// is not Busy.
func (p *DeliveryPartner) ActiveOrderID() *kernel.UUID { return p.activeOrderID }

// Location returns the last reported position, or nil before the first ping.
func (p *DeliveryPartner) Location() *kernel.GeoPoint { return p.location }

// TotalDeliveries returns the count of completed deliveries.
func (p *DeliveryPartner) TotalDeliveries() int64 { return p.totalDeliveries }

// LastSeenAt returns when the partner last pinged or changed state.
func (p *DeliveryPartner) LastSeenAt() time.Time { return p.lastSeenAt }

// CreatedAt returns when the partner was registered.
func (p *DeliveryPartner) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns when the partner last changed.
func (p *DeliveryPartner) UpdatedAt() time.Time { return p.updatedAt }

// Version returns the version the partner was loaded at.
// The repository compares it on save and bumps it after a successful write.
func (p *DeliveryPartner) Version() int64 { return p.version }

// IsAvailable reports whether the partner is free for assignment.
func (p *DeliveryPartner) IsAvailable() bool {
	return p.status == Available
}

// SetAvailability moves the partner between Offline and Available.
//
// Busy cannot be targeted directly: it is entered only through Assign.
// A Busy partner cannot change availability until its active order is
// completed or released; that rejection is an InvalidTransitionError.
func (p *DeliveryPartner) SetAvailability(target Status) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	if target == Busy {
		return errs.NewValueIsInvalidErrorWithCause("partner status",
			errors.New("busy is entered through order assignment only"))
	}

	if p.status == Busy {
		return &InvalidTransitionError{From: p.status, To: target}
	}

	p.status = target
	p.touch()

	return nil
}

// Assign gives the partner an active order, moving it to Busy.
// Returns PartnerUnavailableError when the partner is Offline or already
// carrying an order.
func (p *DeliveryPartner) Assign(orderID kernel.UUID) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	if p.status != Available {
		return &PartnerUnavailableError{PartnerID: p.id.String(), Status: p.status}
	}

	p.status = Busy
	p.activeOrderID = &orderID
	p.touch()

	return nil
}

// CompleteDelivery finishes the active order: the partner returns to
// Available, the order reference is cleared, and the delivery count grows.
func (p *DeliveryPartner) CompleteDelivery() error {
	if err := p.releaseActiveOrder(); err != nil {
		return err
	}

	p.totalDeliveries++

	return nil
}

// Release frees the partner without crediting a delivery, for cancelled
// orders. The partner returns to Available and the order reference clears.
func (p *DeliveryPartner) Release() error {
	return p.releaseActiveOrder()
}

func (p *DeliveryPartner) releaseActiveOrder() error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.status != Busy || p.activeOrderID == nil {
		return errs.NewValueIsInvalidErrorWithCause("partner",
			errors.New("no active order to release"))
	}

	p.status = Available
	p.activeOrderID = nil
	p.touch()

	return nil
}

// UpdateLocation records a position ping and refreshes the last-seen time.
func (p *DeliveryPartner) UpdateLocation(point kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	p.location = &point
	p.touch()

	return nil
}

// MarkOffline forces the partner Offline, used by the stale-partner sweep.
// A Busy partner is left alone so an in-flight delivery keeps its partner.
func (p *DeliveryPartner) MarkOffline() error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.status == Busy {
		return &PartnerUnavailableError{PartnerID: p.id.String(), Status: p.status}
	}

	p.status = Offline
	p.touch()

	return nil
}

func (p *DeliveryPartner) touch() {
	now := time.Now().UTC()
	p.lastSeenAt = now
	p.updatedAt = now
}
