package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/david/accel-hub/internal/models"
)

type createCallRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

func (s *Server) handleCreateCall(c echo.Context) error {
	var req createCallRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}

	call := &models.StartupCall{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: s.sanitize.Sanitize(req.Description),
		Deadline:    req.Deadline,
		Status:      "OPEN",
	}
	if err := s.Store.CreateCall(c.Request().Context(), call); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, call)
}

func (s *Server) handleListCalls(c echo.Context) error {
	calls, err := s.Store.ListCalls(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, calls)
}

func (s *Server) handleGetCall(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid call ID"})
	}
	call, err := s.Store.GetCall(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, call)
}

func (s *Server) handleUpdateCallStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid call ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	status := req.Status
	if status != "OPEN" && status != "CLOSED" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "status must be OPEN or CLOSED"})
	}

	call, err := s.Store.UpdateCallStatus(c.Request().Context(), id, status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, call)
}
