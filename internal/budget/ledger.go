// Package budget computes derived financial figures for a funding envelope
// and owns budget provisioning. Figures are always recomputed from current
// child rows; nothing derived is ever stored.
package budget

import (
	"time"

	"github.com/google/uuid"

	"github.com/david/accel-hub/internal/config"
	"github.com/david/accel-hub/internal/models"
)

// Snapshot is a consistent read of a budget and its children, taken inside
// one transaction by the store.
type Snapshot struct {
	Budget     models.Budget
	Categories []models.BudgetCategory
	Expenses   []models.Expense
}

// ComputeFigures derives spent/remaining totals and per-category utilization.
// Only APPROVED expenses count toward spent.
func ComputeFigures(snap *Snapshot) models.BudgetFigures {
	var spent float64
	spentByCategory := make(map[uuid.UUID]float64)

	for _, e := range snap.Expenses {
		if e.Status != models.ExpenseApproved {
			continue
		}
		spent += e.Amount
		if e.CategoryID != nil {
			spentByCategory[*e.CategoryID] += e.Amount
		}
	}

	figures := models.BudgetFigures{
		Spent:      spent,
		Remaining:  snap.Budget.TotalAmount - spent,
		Categories: make([]models.CategoryFigures, 0, len(snap.Categories)),
	}

	for _, c := range snap.Categories {
		catSpent := spentByCategory[c.ID]
		utilization := 0.0
		if c.AllocatedAmount != 0 {
			utilization = catSpent / c.AllocatedAmount * 100
		}
		figures.Categories = append(figures.Categories, models.CategoryFigures{
			CategoryID:      c.ID,
			Name:            c.Name,
			AllocatedAmount: c.AllocatedAmount,
			Spent:           catSpent,
			Remaining:       c.AllocatedAmount - catSpent,
			UtilizationPct:  utilization,
		})
	}

	return figures
}

// ProvisionPlan builds the default budget for a call from configuration.
func ProvisionPlan(defaults config.BudgetDefaults, callID uuid.UUID, now time.Time) (models.Budget, []models.BudgetCategory) {
	b := models.Budget{
		ID:          uuid.New(),
		CallID:      callID,
		TotalAmount: defaults.TotalAmount,
		Currency:    defaults.Currency,
		FiscalYear:  now.Year(),
		Status:      "active",
	}

	categories := make([]models.BudgetCategory, 0, len(defaults.Categories))
	for _, c := range defaults.Categories {
		categories = append(categories, models.BudgetCategory{
			ID:              uuid.New(),
			BudgetID:        b.ID,
			Name:            c.Name,
			AllocatedAmount: defaults.TotalAmount * c.Percent / 100,
		})
	}

	return b, categories
}
