package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/review"
)

type assignReviewerRequest struct {
	ReviewerID uuid.UUID  `json:"reviewerId"`
	DueDate    *time.Time `json:"dueDate"`
}

func (s *Server) handleAssignReviewer(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid application ID"})
	}

	var req assignReviewerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.ReviewerID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "reviewerId is required"})
	}

	assignment, err := s.Reviews.AssignReviewer(c.Request().Context(), applicationID, req.ReviewerID, req.DueDate, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, assignment)
}

func (s *Server) handleListAssignments(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	assignments, err := s.Reviews.ListAssignments(c.Request().Context(), p.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, assignments)
}

type submitReviewRequest struct {
	review.Scores
	Feedback string `json:"feedback"`
}

func (s *Server) handleSubmitReview(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid application ID"})
	}

	var req submitReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	mine, err := s.Store.GetAssignmentForReviewer(c.Request().Context(), p.UserID, applicationID)
	if err != nil {
		return writeError(c, err)
	}

	assignment, err := s.Reviews.SubmitReview(c.Request().Context(), mine.ID, req.Scores, req.Feedback, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, assignment)
}

func (s *Server) handleListReviews(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid application ID"})
	}

	reviews, err := s.Reviews.ListReviews(c.Request().Context(), applicationID, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}
