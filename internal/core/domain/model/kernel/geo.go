package kernel

import (
	"errors"
	"fmt"
	"math"

	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

// Valid WGS-84 coordinate bounds.
const (
	GeoMinLat float64 = -90
	GeoMaxLat float64 = 90
	GeoMinLng float64 = -180
	GeoMaxLng float64 = 180
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly initialized GeoPoint.
// GeoPoints must be created via the NewGeoPoint constructor to ensure validity.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a point on the map with validated latitude/longitude.
// GeoPoint is an immutable value object; the zero value is invalid and fails
// validation — use the constructor to create instances.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(12.9716, 77.5946)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Printf("Point: %s", p) // Output: GeoPoint(12.971600,77.594600)
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a new GeoPoint with the specified coordinates.
// Latitude must be within [-90..90], longitude within [-180..180], and
// neither may be NaN. Returns an error if a coordinate is out of bounds.
func NewGeoPoint(lat float64, lng float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks if the GeoPoint was properly constructed via NewGeoPoint.
// The zero value of GeoPoint is invalid and fails this validation.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude of the point.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude of the point.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// String returns a human-readable representation in the format
// "GeoPoint(lat,lng)". Implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.lat, p.lng)
}

// IsEqual compares two points for coordinate equality.
// Both points must be properly constructed for the comparison to succeed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lng == other.lng, nil
}

// Interpolate returns the point at the given fraction of the straight line
// between p and target. A fraction of 0 returns p, 1 returns target; values
// are clamped to [0..1]. Used to synthesize intermediate positions when
// simulating a delivery run.
func (p GeoPoint) Interpolate(target GeoPoint, fraction float64) (GeoPoint, error) {
	if err := errors.Join(p.Validate(), target.Validate()); err != nil {
		return GeoPoint{}, err
	}

	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	return NewGeoPoint(
		p.lat+(target.lat-p.lat)*fraction,
		p.lng+(target.lng-p.lng)*fraction,
	)
}

// setLat sets the latitude with validation.
// Note: pointer receiver on a value-object type is intentional here — private
// setters enable self-encapsulated validation during construction.
func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < GeoMinLat || lat > GeoMaxLat {
		return errs.NewValueIsOutOfRangeError("lat", lat, GeoMinLat, GeoMaxLat)
	}

	p.lat = lat
	return nil
}

// setLng sets the longitude with validation.
// Note: pointer receiver on a value-object type is intentional here — private
// setters enable self-encapsulated validation during construction.
func (p *GeoPoint) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < GeoMinLng || lng > GeoMaxLng {
		return errs.NewValueIsOutOfRangeError("lng", lng, GeoMinLng, GeoMaxLng)
	}

	p.lng = lng
	return nil
}
