package commands

import (
	"context"
	"log/slog"

	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/ports"
)

// TransitionOrderCommandHandler applies status transitions requested from
// outside the normal assign/complete flow, such as an operator cancelling
// an order.
//
// Delivered delegates to CompleteDeliveryCommandHandler so completion has a
// single code path. Cancelled releases a still-assigned partner back to
// Available without crediting a delivery. Any other target is rejected by
// the aggregate with an InvalidTransitionError naming both statuses.
type TransitionOrderCommandHandler struct {
	uowFactory      UoWFactory
	completeHandler CompleteDeliveryCommandHandler
	effects         sideEffects
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	dispatcher ports.NotificationDispatcher,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory:      uowFactory,
		completeHandler: NewCompleteDeliveryCommandHandler(uowFactory, publisher, dispatcher, logger),
		effects:         newSideEffects(publisher, dispatcher, logger),
	}
}

// Handle processes the transition command.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.Target() == order.Delivered {
		completeCmd, err := NewCompleteDeliveryCommand(cmd.OrderID(), cmd.Note())
		if err != nil {
			return err
		}
		return h.completeHandler.Handle(ctx, completeCmd)
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

	// Cancel clears the partner reference, so capture it first.
	assignedPartnerID := orderAggregate.PartnerID()

	if err = orderAggregate.Transition(cmd.Target(), cmd.Note()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, orderAggregate); err != nil {
		return err
	}

	if cmd.Target() == order.Cancelled && assignedPartnerID != nil {
		partnerAggregate, getErr := partnerRepo.Get(ctx, *assignedPartnerID)
		if getErr != nil {
			return getErr
		}
		if err = partnerAggregate.Release(); err != nil {
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
