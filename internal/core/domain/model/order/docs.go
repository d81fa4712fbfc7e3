// Package order contains the Order aggregate: the status state machine,
// the append-only tracking history, and the delivery partner reference.
// All lifecycle rules live here; repositories and use cases only orchestrate.
package order
