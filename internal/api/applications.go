package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
)

type createApplicationRequest struct {
	StartupName string `json:"startup_name"`
	Pitch       string `json:"pitch"`
	Market      string `json:"market"`
	Team        string `json:"team"`
}

func (s *Server) handleCreateApplication(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	callID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid call ID"})
	}

	var req createApplicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.StartupName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "startup_name is required"})
	}

	call, err := s.Store.GetCall(ctx, callID)
	if err != nil {
		return writeError(c, err)
	}
	if call.Status != "OPEN" {
		return c.JSON(http.StatusConflict, map[string]string{"error": "call is closed"})
	}

	app := &models.Application{
		ID:          uuid.New(),
		UserID:      p.UserID,
		CallID:      callID,
		StartupName: req.StartupName,
		Pitch:       s.sanitize.Sanitize(req.Pitch),
		Market:      s.sanitize.Sanitize(req.Market),
		Team:        s.sanitize.Sanitize(req.Team),
		Status:      models.StatusSubmitted,
	}
	if err := s.Store.CreateApplication(ctx, app); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, app)
}

// handleListApplications returns all applications for admins (optionally
// filtered by call_id) and the caller's own applications for everyone else.
func (s *Server) handleListApplications(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var callID *uuid.UUID
	if raw := c.QueryParam("call_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid call_id"})
		}
		callID = &id
	}

	var ownerID *uuid.UUID
	if !p.IsAdmin() {
		ownerID = &p.UserID
	}

	apps, err := s.Store.ListApplications(c.Request().Context(), callID, ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apps)
}

func (s *Server) handleGetApplication(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid application ID"})
	}

	app, err := s.Store.GetApplication(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	if !p.IsAdmin() && app.UserID != p.UserID {
		// Assigned reviewers need the application content to review it.
		assigned, err := s.Store.AssignmentExists(ctx, p.UserID, id)
		if err != nil {
			return writeError(c, err)
		}
		if !assigned {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}

	return c.JSON(http.StatusOK, app)
}

func (s *Server) handleTransitionApplication(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid application ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	app, err := s.Workflows.Transition(c.Request().Context(), id, req.Status, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, app)
}

func (s *Server) handleWithdrawApplication(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid application ID"})
	}

	app, err := s.Workflows.Withdraw(c.Request().Context(), id, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, app)
}
