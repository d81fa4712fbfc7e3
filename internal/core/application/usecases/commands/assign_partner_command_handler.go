package commands

import (
	"context"
	"log/slog"

	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/ports"
)

// AssignPartnerCommandHandler orchestrates the assignment of a delivery
// partner to an order. Both aggregates change in one transaction: the order
// moves to OutForDelivery with the partner reference and ETA, the partner
// moves to Busy with the order reference. The order is saved before the
// partner; optimistic version checks on both sides make the assignment
// exclusive under concurrency.
//
// After commit the appended events are broadcast to the order's room and the
// customer is notified. Broadcast and notification failures never fail the
// assignment.
type AssignPartnerCommandHandler struct {
	uowFactory UoWFactory
	effects    sideEffects
}

// NewAssignPartnerCommandHandler creates a handler for partner assignment.
func NewAssignPartnerCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	dispatcher ports.NotificationDispatcher,
	logger *slog.Logger,
) AssignPartnerCommandHandler {
	return AssignPartnerCommandHandler{
		uowFactory: uowFactory,
		effects:    newSideEffects(publisher, dispatcher, logger),
	}
}

// Handle processes the assignment command.
// Returns partner.ErrPartnerUnavailable when the partner cannot take the
// order and order.ErrInvalidTransition when the order is not in Processing.
func (h AssignPartnerCommandHandler) Handle(ctx context.Context, cmd AssignPartnerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	partnerRepo := uow.PartnerRepository()

	orderAggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	partnerAggregate, err := partnerRepo.Get(ctx, cmd.PartnerID())
	if err != nil {
		return err
	}

	persisted := len(orderAggregate.History())

	if err = partnerAggregate.Assign(orderAggregate.ID()); err != nil {
		return err
	}

	if err = orderAggregate.AssignPartner(order.PartnerPayload{
		PartnerID:     partnerAggregate.ID().String(),
		Name:          partnerAggregate.Name(),
		Phone:         partnerAggregate.Phone(),
		VehicleNumber: partnerAggregate.VehicleNumber(),
		Rating:        partnerAggregate.Rating(),
	}); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, orderAggregate); err != nil {
		return err
	}
	if err = partnerRepo.Update(ctx, partnerAggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	events := orderAggregate.NewEvents(persisted)
	h.effects.broadcast(orderAggregate.ID(), orderAggregate.CustomerID(), events)
	h.effects.notify(ctx, orderAggregate.ID(), orderAggregate.CustomerID(), events)

	return nil
}
