package commands

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new order for tracking.
// The order enters the system in Processing status with no partner assigned.
//
// Example:
//
//	restaurant, _ := kernel.NewGeoPoint(12.9352, 77.6245)
//	delivery, _ := kernel.NewGeoPoint(12.9716, 77.5946)
//	cmd, err := NewCreateOrderCommand(customerID, restaurant, delivery)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Created order %s", cmd.OrderID())
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	customerID         kernel.UUID
	restaurantLocation kernel.GeoPoint
	deliveryLocation   kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Automatically generates the order identity.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	restaurantLocation, deliveryLocation kernel.GeoPoint,
) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(kernel.NewUUID()),
		command.setCustomerID(customerID),
		command.setRestaurantLocation(restaurantLocation),
		command.setDeliveryLocation(deliveryLocation),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the generated order identity.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer's identity.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// RestaurantLocation returns the pickup coordinates.
func (c CreateOrderCommand) RestaurantLocation() kernel.GeoPoint {
	return c.restaurantLocation
}

// DeliveryLocation returns the drop-off coordinates.
func (c CreateOrderCommand) DeliveryLocation() kernel.GeoPoint {
	return c.deliveryLocation
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setRestaurantLocation(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.restaurantLocation = point
	return nil
}

func (c *CreateOrderCommand) setDeliveryLocation(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.deliveryLocation = point
	return nil
}
