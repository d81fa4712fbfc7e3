// Package ports defines the contracts between the tracking core and its
// infrastructure: repositories, the unit of work, the broadcast publisher,
// and the notification dispatcher. The core depends only on these
// interfaces; adapters provide the implementations.
package ports

import (
	"context"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/partner"
)

// PartnerRepository defines the persistence contract for delivery partner
// aggregates. Implementations enforce optimistic concurrency on Update.
type PartnerRepository interface {
	// Add persists a new partner aggregate to storage.
	Add(ctx context.Context, aggregate *partner.DeliveryPartner) error

	// Update persists changes to an existing partner aggregate.
	// Returns a version conflict error when a concurrent writer got there first.
	Update(ctx context.Context, aggregate *partner.DeliveryPartner) error

	// Get retrieves a partner aggregate by its unique identifier.
	// Returns an object-not-found error when no such partner exists.
	Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error)

	// GetAllStale retrieves on-duty partners whose last ping is older than
	// the cutoff. Busy partners are never returned. Used by the offline sweep.
	GetAllStale(ctx context.Context, lastSeenBefore time.Time) ([]*partner.DeliveryPartner, error)
}
