package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"tracking/internal/core/application/usecases/commands"
)

// JobManager coordinates the background machinery: the cron-driven stale
// partner sweep and the route simulations.
type JobManager struct {
	partnerOfflineJob *PartnerOfflineJob
	simulations       *SimulationManager
}

// NewJobManager creates a job manager wired to the given handlers.
func NewJobManager(
	sweepHandler commands.SweepStalePartnersCommandHandler,
	simulations *SimulationManager,
	staleAfter time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		partnerOfflineJob: NewPartnerOfflineJob(sweepHandler, staleAfter, logger),
		simulations:       simulations,
	}
}

// StartAll starts the scheduled jobs. Simulations start on demand.
func (jm *JobManager) StartAll() error {
	if err := jm.partnerOfflineJob.Start(); err != nil {
		return fmt.Errorf("failed to start partner offline job: %w", err)
	}

	return nil
}

// StopAll stops the scheduled jobs and cancels all running simulations.
func (jm *JobManager) StopAll() {
	jm.partnerOfflineJob.Stop()
	jm.simulations.StopAll()
}
