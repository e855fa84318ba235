package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/config"
	"github.com/david/accel-hub/internal/models"
)

type Store interface {
	GetBudget(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	GetBudgetByCall(ctx context.Context, callID uuid.UUID) (*models.Budget, error)
	ListBudgetsByCall(ctx context.Context, callID uuid.UUID) ([]models.Budget, error)
	// CreateBudget inserts the budget and its categories in one transaction.
	CreateBudget(ctx context.Context, b *models.Budget, categories []models.BudgetCategory) error
	GetSnapshot(ctx context.Context, budgetID uuid.UUID) (*Snapshot, error)

	GetExpense(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	CreateExpense(ctx context.Context, e *models.Expense) error
	// UpdateExpenseStatus persists the new status/description and reads the
	// budget snapshot in the same transaction, so the returned figures are
	// consistent with the write.
	UpdateExpenseStatus(ctx context.Context, id uuid.UUID, status models.ExpenseStatus, description string) (*models.Expense, *Snapshot, error)
	// ResolveExpenseFounder walks expense -> budget -> call -> approved
	// application -> owner. ok is false when any link is missing.
	ResolveExpenseFounder(ctx context.Context, expenseID uuid.UUID) (founderID uuid.UUID, ok bool, err error)
}

type Notifier interface {
	Emit(ctx context.Context, userID uuid.UUID, title, message, typ, link string)
}

type Service struct {
	store    Store
	notifier Notifier
	defaults config.BudgetDefaults
	log      *zap.Logger
	sanitize *bluemonday.Policy
	now      func() time.Time
}

func NewService(store Store, notifier Notifier, defaults config.BudgetDefaults, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		defaults: defaults,
		log:      log,
		sanitize: bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

type CreateBudgetInput struct {
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
	FiscalYear  int     `json:"fiscal_year"`
	Categories  []struct {
		Name            string  `json:"name"`
		AllocatedAmount float64 `json:"allocated_amount"`
	} `json:"categories"`
}

func (s *Service) CreateBudget(ctx context.Context, callID uuid.UUID, input CreateBudgetInput) (*models.Budget, error) {
	if input.TotalAmount <= 0 {
		return nil, apperr.Validationf("total_amount must be positive")
	}
	if input.Currency == "" {
		return nil, apperr.Validationf("currency is required")
	}

	fiscalYear := input.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = s.now().Year()
	}

	b := &models.Budget{
		ID:          uuid.New(),
		CallID:      callID,
		TotalAmount: input.TotalAmount,
		Currency:    strings.ToUpper(input.Currency),
		FiscalYear:  fiscalYear,
		Status:      "draft",
	}

	categories := make([]models.BudgetCategory, 0, len(input.Categories))
	for _, c := range input.Categories {
		if c.Name == "" {
			return nil, apperr.Validationf("category name is required")
		}
		if c.AllocatedAmount < 0 {
			return nil, apperr.Validationf("category %q allocation must not be negative", c.Name)
		}
		categories = append(categories, models.BudgetCategory{
			ID:              uuid.New(),
			BudgetID:        b.ID,
			Name:            c.Name,
			AllocatedAmount: c.AllocatedAmount,
		})
	}

	if err := s.store.CreateBudget(ctx, b, categories); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) ListBudgets(ctx context.Context, callID uuid.UUID) ([]models.Budget, error) {
	return s.store.ListBudgetsByCall(ctx, callID)
}

// Figures returns the budget with its derived totals, recomputed from the
// current child rows.
func (s *Service) Figures(ctx context.Context, budgetID uuid.UUID) (*Snapshot, models.BudgetFigures, error) {
	snap, err := s.store.GetSnapshot(ctx, budgetID)
	if err != nil {
		return nil, models.BudgetFigures{}, err
	}
	return snap, ComputeFigures(snap), nil
}

type AddExpenseInput struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	IncurredAt  *time.Time `json:"incurred_at"`
}

func (s *Service) AddExpense(ctx context.Context, budgetID uuid.UUID, input AddExpenseInput) (*models.Expense, error) {
	if input.Amount <= 0 {
		return nil, apperr.Validationf("amount must be positive")
	}
	if _, err := s.store.GetBudget(ctx, budgetID); err != nil {
		return nil, err
	}

	e := &models.Expense{
		ID:          uuid.New(),
		BudgetID:    budgetID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Status:      models.ExpensePending,
		Description: s.sanitize.Sanitize(input.Description),
		IncurredAt:  input.IncurredAt,
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateExpenseStatus applies an approval decision. Feedback is appended to
// the description; figures come back recomputed within the same transaction
// as the write.
func (s *Service) UpdateExpenseStatus(ctx context.Context, expenseID uuid.UUID, rawStatus, feedback string, actor auth.Principal) (*models.Expense, models.BudgetFigures, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RoleSponsor, models.RoleReviewer:
	default:
		return nil, models.BudgetFigures{}, apperr.Forbiddenf("role %s cannot review expenses", actor.Role)
	}

	status, err := models.ParseExpenseStatus(rawStatus)
	if err != nil {
		return nil, models.BudgetFigures{}, apperr.Validationf("%v", err)
	}

	current, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, models.BudgetFigures{}, err
	}

	description := current.Description
	if feedback != "" {
		description = appendFeedback(description, s.sanitize.Sanitize(feedback))
	}

	updated, snap, err := s.store.UpdateExpenseStatus(ctx, expenseID, status, description)
	if err != nil {
		return nil, models.BudgetFigures{}, err
	}

	if status != current.Status {
		s.notifyFounder(ctx, updated, status)
	}

	return updated, ComputeFigures(snap), nil
}

// notifyFounder is best-effort: the approval chain from expense to founder
// may be incomplete, in which case the notification is skipped silently.
func (s *Service) notifyFounder(ctx context.Context, e *models.Expense, status models.ExpenseStatus) {
	founderID, ok, err := s.store.ResolveExpenseFounder(ctx, e.ID)
	if err != nil {
		s.log.Error("resolving expense founder failed",
			zap.String("expense_id", e.ID.String()), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	s.notifier.Emit(ctx, founderID, "Expense "+strings.ToLower(string(status)),
		fmt.Sprintf("Your expense of %.2f was marked %s.", e.Amount, status),
		"EXPENSE_STATUS", fmt.Sprintf("/budgets/%s", e.BudgetID))
}

// AutoProvision creates the default budget for a call when an application is
// approved and no budget exists yet. Satisfies workflow.Provisioner.
func (s *Service) AutoProvision(ctx context.Context, callID uuid.UUID, app *models.Application) error {
	_, err := s.store.GetBudgetByCall(ctx, callID)
	if err == nil {
		s.log.Info("budget already exists for call, skipping auto-provisioning",
			zap.String("call_id", callID.String()))
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	b, categories := ProvisionPlan(s.defaults, callID, s.now())
	if err := s.store.CreateBudget(ctx, &b, categories); err != nil {
		return err
	}

	s.log.Info("auto-provisioned budget",
		zap.String("call_id", callID.String()),
		zap.String("budget_id", b.ID.String()),
		zap.Float64("total_amount", b.TotalAmount))
	return nil
}

func appendFeedback(description, feedback string) string {
	if description == "" {
		return "Feedback: " + feedback
	}
	return description + "\nFeedback: " + feedback
}
