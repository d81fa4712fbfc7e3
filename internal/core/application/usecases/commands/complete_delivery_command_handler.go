package commands

import (
	"context"
	"log/slog"

	"tracking/internal/core/ports"
)

// CompleteDeliveryCommandHandler finishes a delivery. In one transaction the
// order moves to Delivered and the partner returns to Available with its
// delivery count incremented. A second completion of the same order fails
// with order.ErrInvalidTransition and changes nothing, so the partner's
// counters are never double-credited.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	effects    sideEffects
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
func NewCompleteDeliveryCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	dispatcher ports.NotificationDispatcher,
	logger *slog.Logger,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		effects:    newSideEffects(publisher, dispatcher, logger),
	}
}

// Handle processes the completion command.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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

	persisted := len(orderAggregate.History())

	if err = orderAggregate.Complete(cmd.Note()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, orderAggregate); err != nil {
		return err
	}

	// The partner reference survives delivery for history, so it is still
	// present here and names the partner to free.
	if partnerID := orderAggregate.PartnerID(); partnerID != nil {
		partnerAggregate, getErr := partnerRepo.Get(ctx, *partnerID)
		if getErr != nil {
			return getErr
		}
		if err = partnerAggregate.CompleteDelivery(); err != nil {
			return err
		}
		if err = partnerRepo.Update(ctx, partnerAggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	events := orderAggregate.NewEvents(persisted)
	h.effects.broadcast(orderAggregate.ID(), orderAggregate.CustomerID(), events)
	h.effects.notify(ctx, orderAggregate.ID(), orderAggregate.CustomerID(), events)

	return nil
}
