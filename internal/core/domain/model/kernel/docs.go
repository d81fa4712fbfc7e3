// Package kernel contains shared value objects used across the tracking domain:
// UUID identifiers and validated geographic coordinates. These types enforce
// their invariants through constructors and are safe to share between
// aggregates without copying concerns.
package kernel
