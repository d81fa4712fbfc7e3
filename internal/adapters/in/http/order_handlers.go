package http

import (
	"net/http"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

type geoRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type createOrderRequest struct {
	CustomerID         string     `json:"customerId"`
	RestaurantLocation geoRequest `json:"restaurantLocation"`
	DeliveryLocation   geoRequest `json:"deliveryLocation"`
}

type createOrderResponse struct {
	OrderID string `json:"orderId"`
}

// CreateOrder handles POST /api/v1/orders - registers a new order for tracking.
// Customers create orders for themselves; admins pass the customer explicitly.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	claims, _ := ClaimsFrom(c)
	if claims.Role == RoleCustomer {
		req.CustomerID = claims.Subject
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return domainError(c, err)
	}

	restaurant, err := kernel.NewGeoPoint(req.RestaurantLocation.Lat, req.RestaurantLocation.Lng)
	if err != nil {
		return domainError(c, err)
	}
	delivery, err := kernel.NewGeoPoint(req.DeliveryLocation.Lat, req.DeliveryLocation.Lng)
	if err != nil {
		return domainError(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(customerID, restaurant, delivery)
	if err != nil {
		return domainError(c, err)
	}

	if err = s.createOrder.Handle(c.Request().Context(), cmd); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, createOrderResponse{OrderID: cmd.OrderID().String()})
}

type assignRequest struct {
	OrderID   string `json:"orderId"`
	PartnerID string `json:"partnerId"`
}

// AssignPartner handles POST /api/v1/delivery/assign - dispatches a partner
// onto an order.
func (s *Server) AssignPartner(c echo.Context) error {
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return domainError(c, err)
	}
	partnerID, err := kernel.UUIDFromString(req.PartnerID)
	if err != nil {
		return domainError(c, err)
	}

	cmd, err := commands.NewAssignPartnerCommand(orderID, partnerID)
	if err != nil {
		return domainError(c, err)
	}

	if err = s.assignPartner.Handle(c.Request().Context(), cmd); err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusOK)
}

type transitionRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// TransitionOrder handles POST /api/v1/orders/:orderID/status - moves an
// order to the requested status. A terminal target also cancels any route
// simulation still running for the order.
func (s *Server) TransitionOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return domainError(c, err)
	}

	var req transitionRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return domainError(c, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, req.Note)
	if err != nil {
		return domainError(c, err)
	}

	if err = s.transitionOrder.Handle(c.Request().Context(), cmd); err != nil {
		return domainError(c, err)
	}

	if target.IsTerminal() {
		s.simulations.Stop(orderID)
	}

	return c.NoContent(http.StatusOK)
}

// RecordLocation handles POST /api/v1/orders/:orderID/location - a partner's
// position ping. The partner identity comes from the token, never the body.
func (s *Server) RecordLocation(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return domainError(c, err)
	}

	var req geoRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	point, err := kernel.NewGeoPoint(req.Lat, req.Lng)
	if err != nil {
		return domainError(c, err)
	}

	claims, _ := ClaimsFrom(c)
	partnerID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return domainError(c, err)
	}

	cmd, err := commands.NewRecordLocationCommand(orderID, point, &partnerID)
	if err != nil {
		return domainError(c, err)
	}

	if err = s.recordLocation.Handle(c.Request().Context(), cmd); err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusOK)
}

type completeRequest struct {
	Note string `json:"note"`
}

// CompleteDelivery handles POST /api/v1/orders/:orderID/complete - finishes
// the delivery and stops any running simulation for the order.
func (s *Server) CompleteDelivery(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return domainError(c, err)
	}

	var req completeRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, req.Note)
	if err != nil {
		return domainError(c, err)
	}

	if err = s.completeDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return domainError(c, err)
	}

	s.simulations.Stop(orderID)

	return c.NoContent(http.StatusOK)
}

type simulateRequest struct {
	Steps      int `json:"steps"`
	IntervalMs int `json:"intervalMs"`
}

// SimulateDelivery handles POST /api/v1/orders/:orderID/simulate - walks the
// order's route automatically, pinging a position per step and completing
// the delivery at the end. The walk starts from the last known location,
// falling back to the restaurant.
func (s *Server) SimulateDelivery(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return domainError(c, err)
	}

	var req simulateRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	query, err := queries.NewGetTrackingSnapshotQuery(orderID)
	if err != nil {
		return domainError(c, err)
	}
	snapshot, err := s.getSnapshot.Handle(c.Request().Context(), query)
	if err != nil {
		return domainError(c, err)
	}

	status, err := order.StatusFromString(snapshot.Status)
	if err != nil {
		return domainError(c, err)
	}
	if status.IsTerminal() {
		return c.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: "Order already " + snapshot.Status,
		})
	}

	start := snapshot.RestaurantLocation
	if snapshot.CurrentLocation != nil {
		start = *snapshot.CurrentLocation
	}

	from, err := kernel.NewGeoPoint(start.Lat, start.Lng)
	if err != nil {
		return domainError(c, err)
	}
	to, err := kernel.NewGeoPoint(snapshot.DeliveryLocation.Lat, snapshot.DeliveryLocation.Lng)
	if err != nil {
		return domainError(c, err)
	}

	interval := time.Duration(req.IntervalMs) * time.Millisecond
	if err = s.simulations.Start(orderID, from, to, req.Steps, interval); err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

// GetTracking handles GET /api/v1/orders/:orderID/tracking - the full
// tracking snapshot for one order.
func (s *Server) GetTracking(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return domainError(c, err)
	}

	query, err := queries.NewGetTrackingSnapshotQuery(orderID)
	if err != nil {
		return domainError(c, err)
	}

	snapshot, err := s.getSnapshot.Handle(c.Request().Context(), query)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, snapshot)
}
