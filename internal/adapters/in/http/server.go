// Package http is the inbound REST adapter. It exposes the order and partner
// operations over echo with JWT role checks, translating between wire DTOs
// and application commands and queries.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Consumer-side views of the application layer, satisfied by the concrete
// command and query handlers. Keeping them narrow lets handler tests run on
// fakes instead of a database.
type (
	orderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	partnerRegistrar interface {
		Handle(ctx context.Context, cmd commands.RegisterPartnerCommand) error
	}
	partnerAssigner interface {
		Handle(ctx context.Context, cmd commands.AssignPartnerCommand) error
	}
	orderTransitioner interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderCommand) error
	}
	locationRecorder interface {
		Handle(ctx context.Context, cmd commands.RecordLocationCommand) error
	}
	deliveryCompleter interface {
		Handle(ctx context.Context, cmd commands.CompleteDeliveryCommand) error
	}
	availabilitySetter interface {
		Handle(ctx context.Context, cmd commands.SetPartnerAvailabilityCommand) error
	}
	snapshotReader interface {
		Handle(ctx context.Context, query queries.GetTrackingSnapshotQuery) (
			queries.GetTrackingSnapshotQueryResponse, error)
	}
	availablePartnersReader interface {
		Handle(ctx context.Context, query queries.GetAvailablePartnersQuery) (
			[]queries.GetAvailablePartnersQueryResponse, error)
	}

	// simulationRunner is the route simulator as the API sees it. Satisfied
	// by jobs.SimulationManager.
	simulationRunner interface {
		Start(orderID kernel.UUID, from, to kernel.GeoPoint, steps int, interval time.Duration) error
		Stop(orderID kernel.UUID)
	}

	// trackStream serves the websocket tracking endpoint. Satisfied by the
	// ws adapter.
	trackStream interface {
		Handle(c echo.Context) error
	}
)

// Server wires the REST surface to the application layer.
type Server struct {
	createOrder      orderCreator
	registerPartner  partnerRegistrar
	assignPartner    partnerAssigner
	transitionOrder  orderTransitioner
	recordLocation   locationRecorder
	completeDelivery deliveryCompleter
	setAvailability  availabilitySetter

	getSnapshot          snapshotReader
	getAvailablePartners availablePartnersReader

	simulations simulationRunner
	track       trackStream
	auth        *Authenticator
	logger      *slog.Logger
}

// NewServer creates the HTTP server over the given application handlers.
func NewServer(
	createOrder orderCreator,
	registerPartner partnerRegistrar,
	assignPartner partnerAssigner,
	transitionOrder orderTransitioner,
	recordLocation locationRecorder,
	completeDelivery deliveryCompleter,
	setAvailability availabilitySetter,
	getSnapshot snapshotReader,
	getAvailablePartners availablePartnersReader,
	simulations simulationRunner,
	track trackStream,
	auth *Authenticator,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrder:          createOrder,
		registerPartner:      registerPartner,
		assignPartner:        assignPartner,
		transitionOrder:      transitionOrder,
		recordLocation:       recordLocation,
		completeDelivery:     completeDelivery,
		setAvailability:      setAvailability,
		getSnapshot:          getSnapshot,
		getAvailablePartners: getAvailablePartners,
		simulations:          simulations,
		track:                track,
		auth:                 auth,
		logger:               logger.With("component", "http"),
	}
}

// RegisterRoutes mounts the REST surface on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.Health)

	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder, s.auth.Require(RoleAdmin, RoleCustomer))
	api.POST("/orders/:orderID/status", s.TransitionOrder, s.auth.Require(RoleAdmin))
	api.POST("/orders/:orderID/location", s.RecordLocation, s.auth.Require(RolePartner))
	api.POST("/orders/:orderID/complete", s.CompleteDelivery, s.auth.Require(RoleAdmin, RolePartner))
	api.POST("/orders/:orderID/simulate", s.SimulateDelivery, s.auth.Require(RoleAdmin))
	api.GET("/orders/:orderID/tracking", s.GetTracking,
		s.auth.Require(RoleAdmin, RolePartner, RoleCustomer))
	if s.track != nil {
		api.GET("/orders/:orderID/track", s.track.Handle,
			s.auth.Require(RoleAdmin, RolePartner, RoleCustomer))
	}

	api.POST("/delivery/assign", s.AssignPartner, s.auth.Require(RoleAdmin))

	api.POST("/partners", s.RegisterPartner, s.auth.Require(RoleAdmin))
	api.GET("/partners/available", s.GetAvailablePartners, s.auth.Require(RoleAdmin))
	api.POST("/partners/:partnerID/availability", s.SetAvailability,
		s.auth.Require(RoleAdmin, RolePartner))
}

// Health handles GET /healthz.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param(name))
}
