package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/budget"
)

func (s *Server) handleCreateBudget(c echo.Context) error {
	callID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid call ID"})
	}

	var input budget.CreateBudgetInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if _, err := s.Store.GetCall(c.Request().Context(), callID); err != nil {
		return writeError(c, err)
	}

	b, err := s.Budgets.CreateBudget(c.Request().Context(), callID, input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (s *Server) handleListBudgets(c echo.Context) error {
	callID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid call ID"})
	}

	budgets, err := s.Budgets.ListBudgets(c.Request().Context(), callID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, budgets)
}

// handleGetBudget returns the budget with its categories, expenses, and
// figures derived from the current rows.
func (s *Server) handleGetBudget(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid budget ID"})
	}

	snap, figures, err := s.Budgets.Figures(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"budget":     snap.Budget,
		"categories": snap.Categories,
		"expenses":   snap.Expenses,
		"figures":    figures,
	})
}

func (s *Server) handleAddExpense(c echo.Context) error {
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid budget ID"})
	}

	var input budget.AddExpenseInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	e, err := s.Budgets.AddExpense(c.Request().Context(), budgetID, input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

type updateExpenseStatusRequest struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

func (s *Server) handleUpdateExpenseStatus(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid expense ID"})
	}

	var req updateExpenseStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	e, figures, err := s.Budgets.UpdateExpenseStatus(c.Request().Context(), expenseID, req.Status, req.Feedback, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"expense": e,
		"figures": figures,
	})
}
