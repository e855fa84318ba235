package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/david/accel-hub/internal/auth"
)

func (s *Server) handleListNotifications(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	notifications, err := s.Notifier.List(c.Request().Context(), p.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

func (s *Server) handleMarkNotificationRead(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification ID"})
	}

	n, err := s.Notifier.MarkRead(c.Request().Context(), id, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}
