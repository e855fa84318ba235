package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/david/accel-hub/internal/budget"
	"github.com/david/accel-hub/internal/models"
)

const budgetCols = `id, call_id, total_amount, currency, fiscal_year, status, created_at, updated_at`

const expenseCols = `id, budget_id, category_id, amount, status, description, incurred_at, created_at, updated_at`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.CallID, &b.TotalAmount, &b.Currency, &b.FiscalYear,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.BudgetID, &e.CategoryID, &e.Amount, &e.Status,
		&e.Description, &e.IncurredAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+budgetCols+` FROM budgets WHERE id = $1`, id)
	b, err := scanBudget(row)
	if err != nil {
		return nil, mapErr(err, "budget")
	}
	return b, nil
}

func (s *Store) GetBudgetByCall(ctx context.Context, callID uuid.UUID) (*models.Budget, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+budgetCols+` FROM budgets WHERE call_id = $1 ORDER BY created_at LIMIT 1`, callID)
	b, err := scanBudget(row)
	if err != nil {
		return nil, mapErr(err, "budget")
	}
	return b, nil
}

func (s *Store) ListBudgetsByCall(ctx context.Context, callID uuid.UUID) ([]models.Budget, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+budgetCols+` FROM budgets WHERE call_id = $1 ORDER BY created_at DESC`, callID)
	if err != nil {
		return nil, mapErr(err, "budgets")
	}
	defer rows.Close()

	out := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, mapErr(err, "budgets")
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *Store) CreateBudget(ctx context.Context, b *models.Budget, categories []models.BudgetCategory) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO budgets (id, call_id, total_amount, currency, fiscal_year, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		b.ID, b.CallID, b.TotalAmount, b.Currency, b.FiscalYear, b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapErr(err, "budget")
	}

	for i := range categories {
		c := &categories[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO budget_categories (id, budget_id, name, allocated_amount)
			VALUES ($1, $2, $3, $4)`,
			c.ID, c.BudgetID, c.Name, c.AllocatedAmount)
		if err != nil {
			return mapErr(err, "budget category")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) GetSnapshot(ctx context.Context, budgetID uuid.UUID) (*budget.Snapshot, error) {
	return s.snapshot(ctx, s.pool, budgetID)
}

// querier is the subset of pgxpool.Pool and pgx.Tx used by read helpers.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) snapshot(ctx context.Context, q querier, budgetID uuid.UUID) (*budget.Snapshot, error) {
	row := q.QueryRow(ctx, `SELECT `+budgetCols+` FROM budgets WHERE id = $1`, budgetID)
	b, err := scanBudget(row)
	if err != nil {
		return nil, mapErr(err, "budget")
	}

	snap := &budget.Snapshot{Budget: *b, Categories: []models.BudgetCategory{}, Expenses: []models.Expense{}}

	rows, err := q.Query(ctx, `
		SELECT id, budget_id, name, allocated_amount
		FROM budget_categories WHERE budget_id = $1 ORDER BY name`, budgetID)
	if err != nil {
		return nil, mapErr(err, "budget categories")
	}
	for rows.Next() {
		var c models.BudgetCategory
		if err := rows.Scan(&c.ID, &c.BudgetID, &c.Name, &c.AllocatedAmount); err != nil {
			rows.Close()
			return nil, mapErr(err, "budget categories")
		}
		snap.Categories = append(snap.Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "budget categories")
	}

	rows, err = q.Query(ctx,
		`SELECT `+expenseCols+` FROM expenses WHERE budget_id = $1 ORDER BY created_at`, budgetID)
	if err != nil {
		return nil, mapErr(err, "expenses")
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, mapErr(err, "expenses")
		}
		snap.Expenses = append(snap.Expenses, *e)
	}
	return snap, rows.Err()
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+expenseCols+` FROM expenses WHERE id = $1`, id)
	e, err := scanExpense(row)
	if err != nil {
		return nil, mapErr(err, "expense")
	}
	return e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO expenses (id, budget_id, category_id, amount, status, description, incurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		e.ID, e.BudgetID, e.CategoryID, e.Amount, e.Status, e.Description, e.IncurredAt,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return mapErr(err, "expense")
}

// UpdateExpenseStatus writes the new status and reads the budget snapshot in
// the same transaction so the returned figures match the committed state.
func (s *Store) UpdateExpenseStatus(ctx context.Context, id uuid.UUID, status models.ExpenseStatus, description string) (*models.Expense, *budget.Snapshot, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE expenses SET status = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+expenseCols, id, status, description)
	e, err := scanExpense(row)
	if err != nil {
		return nil, nil, mapErr(err, "expense")
	}

	snap, err := s.snapshot(ctx, tx, e.BudgetID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return e, snap, nil
}

// ResolveExpenseFounder walks expense -> budget -> call -> approved
// application -> owner. ok is false when any link is missing, which is not an
// error: provisioned budgets exist before any application is approved.
func (s *Store) ResolveExpenseFounder(ctx context.Context, expenseID uuid.UUID) (uuid.UUID, bool, error) {
	var founderID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT a.user_id
		FROM expenses e
		JOIN budgets b ON b.id = e.budget_id
		JOIN applications a ON a.call_id = b.call_id AND a.status = $2
		WHERE e.id = $1
		ORDER BY a.updated_at DESC
		LIMIT 1`,
		expenseID, models.StatusApproved).Scan(&founderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, mapErr(err, "expense founder")
	}
	return founderID, true, nil
}
