// Package jobs provides the background machinery of the tracking service:
// the cron-driven stale partner sweep and the per-order route simulator.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"tracking/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultStaleAfter is the ping age beyond which an available partner is
// considered gone and swept offline.
const DefaultStaleAfter = 5 * time.Minute

// staleSweeper handles the sweep command. Satisfied by
// commands.SweepStalePartnersCommandHandler.
type staleSweeper interface {
	Handle(ctx context.Context, cmd commands.SweepStalePartnersCommand) error
}

// PartnerOfflineJob periodically forces silent partners offline so they stop
// appearing in the available pool. Runs every 30 seconds.
type PartnerOfflineJob struct {
	handler    staleSweeper
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewPartnerOfflineJob creates the sweep job with the given staleness window.
func NewPartnerOfflineJob(handler staleSweeper, staleAfter time.Duration, logger *slog.Logger) *PartnerOfflineJob {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	return &PartnerOfflineJob{
		handler:    handler,
		staleAfter: staleAfter,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "partner_offline_job"),
	}
}

// Start schedules the sweep to run every 30 seconds.
func (j *PartnerOfflineJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewSweepStalePartnersCommand(j.staleAfter)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "stale partner sweep misconfigured", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "stale partner sweep failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("partner offline job started", "stale_after", j.staleAfter.String())
	return nil
}

// Stop stops the sweep job.
func (j *PartnerOfflineJob) Stop() {
	j.cron.Stop()
	j.logger.Info("partner offline job stopped")
}
