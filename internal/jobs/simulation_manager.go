package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"
)

// Default simulation parameters, used when a request leaves them unset.
const (
	DefaultSimulationSteps    = 10
	DefaultSimulationInterval = 3 * time.Second
)

// locationRecorder handles simulated position pings. Satisfied by
// commands.RecordLocationCommandHandler.
type locationRecorder interface {
	Handle(ctx context.Context, cmd commands.RecordLocationCommand) error
}

// deliveryCompleter handles the final delivery completion. Satisfied by
// commands.CompleteDeliveryCommandHandler.
type deliveryCompleter interface {
	Handle(ctx context.Context, cmd commands.CompleteDeliveryCommand) error
}

type simulation struct {
	cancel context.CancelFunc
}

// SimulationManager runs one route simulation per order: it walks the
// straight line between two points in fixed steps, emitting a position ping
// per step, then completes the delivery. At most one simulation runs per
// order; starting a new one replaces the old.
//
// A simulation ends on its own when the order reaches a terminal status out
// from under it: the completion command comes back with an invalid
// transition and the run exits quietly. Explicit Stop is still the right
// call when an order is completed or cancelled through the API, so the
// remaining pings stop immediately.
type SimulationManager struct {
	recorder  locationRecorder
	completer deliveryCompleter
	logger    *slog.Logger

	mu   sync.Mutex
	runs map[kernel.UUID]*simulation
	wg   sync.WaitGroup
}

// NewSimulationManager creates an empty simulation manager.
func NewSimulationManager(
	recorder locationRecorder, completer deliveryCompleter, logger *slog.Logger,
) *SimulationManager {
	return &SimulationManager{
		recorder:  recorder,
		completer: completer,
		logger:    logger.With("component", "simulation_manager"),
		runs:      make(map[kernel.UUID]*simulation),
	}
}

// Start launches a simulation for the order, walking from the start point to
// the end point in the given number of steps, one ping per interval.
// A simulation already running for the order is cancelled and replaced.
func (m *SimulationManager) Start(
	orderID kernel.UUID,
	from, to kernel.GeoPoint,
	steps int,
	interval time.Duration,
) error {
	var err error
	err = errors.Join(err, orderID.Validate())
	err = errors.Join(err, from.Validate())
	err = errors.Join(err, to.Validate())
	if err != nil {
		return err
	}

	if steps <= 0 {
		steps = DefaultSimulationSteps
	}
	if interval <= 0 {
		interval = DefaultSimulationInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := &simulation{cancel: cancel}

	m.mu.Lock()
	if old, ok := m.runs[orderID]; ok {
		old.cancel()
	}
	m.runs[orderID] = run
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(ctx, run, orderID, from, to, steps, interval)

	m.logger.Info("simulation started",
		"order_id", orderID.String(), "steps", steps, "interval", interval.String())

	return nil
}

// Stop cancels the simulation for the order, if one is running.
func (m *SimulationManager) Stop(orderID kernel.UUID) {
	m.mu.Lock()
	run, ok := m.runs[orderID]
	if ok {
		delete(m.runs, orderID)
	}
	m.mu.Unlock()

	if ok {
		run.cancel()
		m.logger.Info("simulation stopped", "order_id", orderID.String())
	}
}

// StopAll cancels every running simulation and waits for the runs to exit.
func (m *SimulationManager) StopAll() {
	m.mu.Lock()
	runs := m.runs
	m.runs = make(map[kernel.UUID]*simulation)
	m.mu.Unlock()

	for _, run := range runs {
		run.cancel()
	}
	m.wg.Wait()

	if len(runs) > 0 {
		m.logger.Info("all simulations stopped", "count", len(runs))
	}
}

// Active reports whether a simulation is currently running for the order.
func (m *SimulationManager) Active(orderID kernel.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.runs[orderID]
	return ok
}

func (m *SimulationManager) run(
	ctx context.Context,
	self *simulation,
	orderID kernel.UUID,
	from, to kernel.GeoPoint,
	steps int,
	interval time.Duration,
) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		if m.runs[orderID] == self {
			delete(m.runs, orderID)
		}
		m.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for step := 1; step <= steps; step++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		fraction := float64(step) / float64(steps)
		point, err := from.Interpolate(to, fraction)
		if err != nil {
			m.logger.Error("simulation interpolation failed",
				"order_id", orderID.String(), "error", err)
			return
		}

		cmd, err := commands.NewRecordLocationCommand(orderID, point, nil)
		if err != nil {
			m.logger.Error("simulation ping rejected",
				"order_id", orderID.String(), "error", err)
			return
		}

		if err = m.recorder.Handle(ctx, cmd); err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				m.logger.Info("simulation ended, order gone", "order_id", orderID.String())
				return
			}
			// Transient failures skip the step; the next tick retries further
			// along the route.
			m.logger.Warn("simulation ping failed",
				"order_id", orderID.String(), "step", step, "error", err)
		}
	}

	if ctx.Err() != nil {
		return
	}

	m.complete(ctx, orderID)
}

func (m *SimulationManager) complete(ctx context.Context, orderID kernel.UUID) {
	cmd, err := commands.NewCompleteDeliveryCommand(orderID, "Delivered (simulated)")
	if err != nil {
		m.logger.Error("simulation completion rejected",
			"order_id", orderID.String(), "error", err)
		return
	}

	if err = m.completer.Handle(ctx, cmd); err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			m.logger.Info("simulation ended, order already terminal",
				"order_id", orderID.String())
			return
		}
		m.logger.Error("simulated completion failed",
			"order_id", orderID.String(), "error", err)
		return
	}

	m.logger.Info("simulated delivery completed", "order_id", orderID.String())
}
