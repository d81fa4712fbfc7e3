package cmd

import (
	"log/slog"
	"time"

	httpadapter "tracking/internal/adapters/in/http"
	"tracking/internal/adapters/in/ws"
	"tracking/internal/adapters/out/notify"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/ports"
	"tracking/internal/hub"
	"tracking/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	trackingHub *hub.TrackingHub
	dispatcher  ports.NotificationDispatcher
	logger      *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	var dispatcher ports.NotificationDispatcher
	if config.WebhookURL != "" {
		webhook, err := notify.NewWebhookDispatcher(config.WebhookURL, logger)
		if err != nil {
			logger.Warn("webhook dispatcher misconfigured, falling back to log", "error", err)
			dispatcher = notify.NewLogDispatcher(logger)
		} else {
			dispatcher = webhook
		}
	} else {
		dispatcher = notify.NewLogDispatcher(logger)
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		trackingHub: hub.NewTrackingHub(logger),
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

func (c *CompositionRoot) TrackingHub() *hub.TrackingHub {
	return c.trackingHub
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterPartnerCommandHandler() commands.RegisterPartnerCommandHandler {
	var f commands.PartnerUoWFactory = FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterPartnerCommandHandler(f)
}

func (c *CompositionRoot) CreateSetPartnerAvailabilityCommandHandler() commands.SetPartnerAvailabilityCommandHandler {
	var f commands.PartnerUoWFactory = FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetPartnerAvailabilityCommandHandler(f)
}

func (c *CompositionRoot) CreateAssignPartnerCommandHandler() commands.AssignPartnerCommandHandler {
	return commands.NewAssignPartnerCommandHandler(
		c.crossUoWFactory(), c.trackingHub, c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(
		c.crossUoWFactory(), c.trackingHub, c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateRecordLocationCommandHandler() commands.RecordLocationCommandHandler {
	return commands.NewRecordLocationCommandHandler(
		c.crossUoWFactory(), c.trackingHub, c.logger)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(
		c.crossUoWFactory(), c.trackingHub, c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateSweepStalePartnersCommandHandler() commands.SweepStalePartnersCommandHandler {
	var f commands.PartnerUoWFactory = FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSweepStalePartnersCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateGetTrackingSnapshotQueryHandler() queries.GetTrackingSnapshotQueryHandler {
	return queries.NewGetTrackingSnapshotQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailablePartnersQueryHandler() queries.GetAvailablePartnersQueryHandler {
	return queries.NewGetAvailablePartnersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateSimulationManager() *jobs.SimulationManager {
	return jobs.NewSimulationManager(
		c.CreateRecordLocationCommandHandler(),
		c.CreateCompleteDeliveryCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager(
	simulations *jobs.SimulationManager, staleAfter time.Duration,
) *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSweepStalePartnersCommandHandler(), simulations, staleAfter, c.logger)
}

func (c *CompositionRoot) CreateTracker() *ws.Tracker {
	return ws.NewTracker(
		c.trackingHub,
		c.CreateGetTrackingSnapshotQueryHandler(),
		c.CreateRecordLocationCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateServer(
	auth *httpadapter.Authenticator, simulations *jobs.SimulationManager, tracker *ws.Tracker,
) *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateRegisterPartnerCommandHandler(),
		c.CreateAssignPartnerCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateRecordLocationCommandHandler(),
		c.CreateCompleteDeliveryCommandHandler(),
		c.CreateSetPartnerAvailabilityCommandHandler(),
		c.CreateGetTrackingSnapshotQueryHandler(),
		c.CreateGetAvailablePartnersQueryHandler(),
		simulations,
		tracker,
		auth,
		c.logger,
	)
}

func (c *CompositionRoot) crossUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPartnerUoWFactory func() commands.PartnerUoW

func (f FuncPartnerUoWFactory) Create() commands.PartnerUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
