package http

import (
	"net/http"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/partner"

	"github.com/labstack/echo/v4"
)

type registerPartnerRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	VehicleNumber string `json:"vehicleNumber"`
	VehicleType   string `json:"vehicleType"`
}

type registerPartnerResponse struct {
	PartnerID string `json:"partnerId"`
}

// RegisterPartner handles POST /api/v1/partners - onboards a new delivery
// partner. Partners start Offline until they report for duty.
func (s *Server) RegisterPartner(c echo.Context) error {
	var req registerPartnerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	vehicleType, err := partner.VehicleTypeFromString(req.VehicleType)
	if err != nil {
		return domainError(c, err)
	}

	cmd, err := commands.NewRegisterPartnerCommand(req.Name, req.Phone, req.VehicleNumber, vehicleType)
	if err != nil {
		return domainError(c, err)
	}

	if err = s.registerPartner.Handle(c.Request().Context(), cmd); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, registerPartnerResponse{PartnerID: cmd.PartnerID().String()})
}

type availabilityRequest struct {
	Status string `json:"status"`
}

// SetAvailability handles POST /api/v1/partners/:partnerID/availability -
// a partner's duty toggle. Partners can only change their own availability;
// admins can change anyone's.
func (s *Server) SetAvailability(c echo.Context) error {
	partnerID, err := pathUUID(c, "partnerID")
	if err != nil {
		return domainError(c, err)
	}

	claims, _ := ClaimsFrom(c)
	if claims.Role == RolePartner && claims.Subject != partnerID.String() {
		return forbidden(c, "Partners can only change their own availability")
	}

	var req availabilityRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	target, err := partner.StatusFromString(req.Status)
	if err != nil {
		return domainError(c, err)
	}

	cmd, err := commands.NewSetPartnerAvailabilityCommand(partnerID, target)
	if err != nil {
		return domainError(c, err)
	}

	if err = s.setAvailability.Handle(c.Request().Context(), cmd); err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusOK)
}

type availablePartnerResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Phone         string      `json:"phone"`
	VehicleNumber string      `json:"vehicleNumber"`
	VehicleType   string      `json:"vehicleType"`
	Rating        float64     `json:"rating"`
	Location      *geoRequest `json:"location,omitempty"`
}

// GetAvailablePartners handles GET /api/v1/partners/available - the partners
// currently free for assignment, best-rated first.
func (s *Server) GetAvailablePartners(c echo.Context) error {
	query := queries.NewGetAvailablePartnersQuery()

	partners, err := s.getAvailablePartners.Handle(c.Request().Context(), query)
	if err != nil {
		return domainError(c, err)
	}

	response := make([]availablePartnerResponse, len(partners))
	for i, p := range partners {
		response[i] = availablePartnerResponse{
			ID:            p.ID.String(),
			Name:          p.Name,
			Phone:         p.Phone,
			VehicleNumber: p.VehicleNumber,
			VehicleType:   p.VehicleType,
			Rating:        p.Rating,
		}
		if p.Location != nil {
			response[i].Location = &geoRequest{Lat: p.Location.Lat(), Lng: p.Location.Lng()}
		}
	}

	return c.JSON(http.StatusOK, response)
}
