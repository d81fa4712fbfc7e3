package commands

import (
	"context"
	"log/slog"

	"tracking/internal/core/ports"
)

// RecordLocationCommandHandler appends a position ping to an order's
// tracking history and broadcasts it to live subscribers. Location pings
// produce no notifications.
type RecordLocationCommandHandler struct {
	uowFactory UoWFactory
	effects    sideEffects
}

// NewRecordLocationCommandHandler creates a handler for position pings.
func NewRecordLocationCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RecordLocationCommandHandler {
	return RecordLocationCommandHandler{
		uowFactory: uowFactory,
		effects:    newSideEffects(publisher, nil, logger),
	}
}

// Handle processes the position ping.
func (h RecordLocationCommandHandler) Handle(ctx context.Context, cmd RecordLocationCommand) error {
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

	orderAggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	persisted := len(orderAggregate.History())

	if err = orderAggregate.RecordLocation(cmd.Point()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, orderAggregate); err != nil {
		return err
	}

	if partnerID := cmd.PartnerID(); partnerID != nil {
		partnerRepo := uow.PartnerRepository()
		partnerAggregate, getErr := partnerRepo.Get(ctx, *partnerID)
		if getErr != nil {
			return getErr
		}
		if err = partnerAggregate.UpdateLocation(cmd.Point()); err != nil {
			return err
		}
		if err = partnerRepo.Update(ctx, partnerAggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.broadcast(orderAggregate.ID(), orderAggregate.CustomerID(), orderAggregate.NewEvents(persisted))

	return nil
}
