package commands

import (
	"context"
	"log/slog"
	"time"
)

// SweepStalePartnersCommandHandler marks stale partners offline in one
// transaction. The repository only surfaces Available partners, so the sweep
// never touches an in-flight delivery.
type SweepStalePartnersCommandHandler struct {
	uowFactory PartnerUoWFactory
	logger     *slog.Logger
}

// NewSweepStalePartnersCommandHandler creates a handler for the stale sweep.
func NewSweepStalePartnersCommandHandler(
	uowFactory PartnerUoWFactory, logger *slog.Logger,
) SweepStalePartnersCommandHandler {
	return SweepStalePartnersCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "commands"),
	}
}

// Handle processes the sweep command.
func (h SweepStalePartnersCommandHandler) Handle(ctx context.Context, cmd SweepStalePartnersCommand) error {
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

	repo := uow.PartnerRepository()

	cutoff := time.Now().UTC().Add(-cmd.StaleAfter())
	stale, err := repo.GetAllStale(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, partnerAggregate := range stale {
		if err = partnerAggregate.MarkOffline(); err != nil {
			return err
		}
		if err = repo.Update(ctx, partnerAggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if len(stale) > 0 {
		h.logger.Info("stale partners marked offline", "count", len(stale))
	}

	return nil
}
