package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
	"github.com/david/accel-hub/internal/sponsorship"
)

func (s *Server) handleCreateSponsorship(c echo.Context) error {
	var input sponsorship.CreateOpportunityInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	o, err := s.Sponsorships.CreateOpportunity(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (s *Server) handleListSponsorships(c echo.Context) error {
	opportunities, err := s.Sponsorships.ListOpportunities(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, opportunities)
}

type applySponsorshipRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (s *Server) handleApplySponsorship(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	opportunityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}

	var req applySponsorshipRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	pledge, err := s.Sponsorships.Apply(c.Request().Context(), opportunityID, req.Amount, req.Currency, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, pledge)
}

type decideSponsorshipRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleDecideSponsorship(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	pledgeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid application ID"})
	}

	var req decideSponsorshipRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	var accept bool
	switch strings.ToUpper(strings.TrimSpace(req.Status)) {
	case models.SponsorshipAccepted:
		accept = true
	case models.SponsorshipRejected:
		accept = false
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "status must be ACCEPTED or REJECTED"})
	}

	pledge, err := s.Sponsorships.Decide(c.Request().Context(), pledgeID, accept, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pledge)
}
