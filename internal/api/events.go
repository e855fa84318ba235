package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/david/accel-hub/internal/models"
)

type createEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	Location    string     `json:"location"`
	Published   bool       `json:"published"`
}

func (s *Server) handleCreateEvent(c echo.Context) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}

	event := &models.Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: s.sanitize.Sanitize(req.Description),
		StartsAt:    req.StartsAt,
		Location:    req.Location,
		Published:   req.Published,
	}
	if err := s.Store.CreateEvent(c.Request().Context(), event); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}

// handleListEvents is public and shows published events only.
func (s *Server) handleListEvents(c echo.Context) error {
	events, err := s.Store.ListEvents(c.Request().Context(), false)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// handleListAllEvents includes unpublished drafts for the admin dashboard.
func (s *Server) handleListAllEvents(c echo.Context) error {
	events, err := s.Store.ListEvents(c.Request().Context(), true)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

func (s *Server) handlePublishEvent(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
	}

	var req struct {
		Published bool `json:"published"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	event, err := s.Store.PublishEvent(c.Request().Context(), id, req.Published)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}
