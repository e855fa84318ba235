package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpenseRejected ExpenseStatus = "REJECTED"
)

func ParseExpenseStatus(raw string) (ExpenseStatus, error) {
	switch ExpenseStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case ExpensePending:
		return ExpensePending, nil
	case ExpenseApproved:
		return ExpenseApproved, nil
	case ExpenseRejected:
		return ExpenseRejected, nil
	}
	return "", fmt.Errorf("unknown expense status %q", raw)
}

type Budget struct {
	ID          uuid.UUID `json:"id"`
	CallID      uuid.UUID `json:"call_id"`
	TotalAmount float64   `json:"total_amount"`
	Currency    string    `json:"currency"`
	FiscalYear  int       `json:"fiscal_year"`
	Status      string    `json:"status"` // draft, active, closed
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BudgetCategory struct {
	ID              uuid.UUID `json:"id"`
	BudgetID        uuid.UUID `json:"budget_id"`
	Name            string    `json:"name"`
	AllocatedAmount float64   `json:"allocated_amount"`
}

type Expense struct {
	ID          uuid.UUID     `json:"id"`
	BudgetID    uuid.UUID     `json:"budget_id"`
	CategoryID  *uuid.UUID    `json:"category_id"`
	Amount      float64       `json:"amount"`
	Status      ExpenseStatus `json:"status"`
	Description string        `json:"description"`
	IncurredAt  *time.Time    `json:"incurred_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BudgetFigures is always derived from current child rows, never stored.
type BudgetFigures struct {
	Spent      float64           `json:"spent"`
	Remaining  float64           `json:"remaining"`
	Categories []CategoryFigures `json:"categories"`
}

type CategoryFigures struct {
	CategoryID      uuid.UUID `json:"category_id"`
	Name            string    `json:"name"`
	AllocatedAmount float64   `json:"allocated_amount"`
	Spent           float64   `json:"spent"`
	Remaining       float64   `json:"remaining"`
	UtilizationPct  float64   `json:"utilization_pct"`
}
