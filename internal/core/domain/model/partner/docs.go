// Package partner contains the DeliveryPartner aggregate. A partner's
// availability status and its active order reference form one invariant:
// Busy if and only if an order is held.
package partner
