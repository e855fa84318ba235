package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/david/accel-hub/internal/models"
)

const assignmentCols = `id, reviewer_id, application_id, status, due_date,
	score, innovation_score, market_score, team_score, execution_score,
	feedback, assigned_at, completed_at`

func scanAssignment(row pgx.Row) (*models.ReviewAssignment, error) {
	var a models.ReviewAssignment
	err := row.Scan(&a.ID, &a.ReviewerID, &a.ApplicationID, &a.Status, &a.DueDate,
		&a.Score, &a.InnovationScore, &a.MarketScore, &a.TeamScore, &a.ExecutionScore,
		&a.Feedback, &a.AssignedAt, &a.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetAssignment(ctx context.Context, id uuid.UUID) (*models.ReviewAssignment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+assignmentCols+` FROM review_assignments WHERE id = $1`, id)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, mapErr(err, "assignment")
	}
	return a, nil
}

func (s *Store) GetAssignmentForReviewer(ctx context.Context, reviewerID, applicationID uuid.UUID) (*models.ReviewAssignment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+assignmentCols+` FROM review_assignments WHERE reviewer_id = $1 AND application_id = $2`,
		reviewerID, applicationID)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, mapErr(err, "assignment")
	}
	return a, nil
}

func (s *Store) AssignmentExists(ctx context.Context, reviewerID, applicationID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM review_assignments WHERE reviewer_id = $1 AND application_id = $2)`,
		reviewerID, applicationID).Scan(&exists)
	if err != nil {
		return false, mapErr(err, "assignment")
	}
	return exists, nil
}

// CreateAssignment inserts the row, bumps the application's reviews_total and
// advances SUBMITTED to UNDER_REVIEW in one transaction, so the counters can
// never drift from the assignment rows.
func (s *Store) CreateAssignment(ctx context.Context, a *models.ReviewAssignment) (*models.Application, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO review_assignments (id, reviewer_id, application_id, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING assigned_at`,
		a.ID, a.ReviewerID, a.ApplicationID, a.Status, a.DueDate,
	).Scan(&a.AssignedAt)
	if err != nil {
		return nil, mapErr(err, "assignment")
	}

	row := tx.QueryRow(ctx, `
		UPDATE applications SET
			reviews_total = reviews_total + 1,
			status = CASE WHEN status = $2 THEN $3 ELSE status END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+applicationCols,
		a.ApplicationID, models.StatusSubmitted, models.StatusUnderReview)
	app, err := scanApplication(row)
	if err != nil {
		return nil, mapErr(err, "application")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return app, nil
}

func (s *Store) ListAssignmentsByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]models.ReviewAssignment, error) {
	return s.listAssignments(ctx, `reviewer_id`, reviewerID)
}

func (s *Store) ListAssignmentsByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.ReviewAssignment, error) {
	return s.listAssignments(ctx, `application_id`, applicationID)
}

func (s *Store) listAssignments(ctx context.Context, col string, id uuid.UUID) ([]models.ReviewAssignment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+assignmentCols+` FROM review_assignments WHERE `+col+` = $1 ORDER BY assigned_at DESC`, id)
	if err != nil {
		return nil, mapErr(err, "assignments")
	}
	defer rows.Close()

	out := []models.ReviewAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, mapErr(err, "assignments")
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *Store) MarkAssignmentsOverdue(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE review_assignments SET status = $2 WHERE id = ANY($1)`,
		ids, models.AssignmentOverdue)
	return mapErr(err, "assignments")
}

// CompleteReview stamps the assignment COMPLETED with its scores and recounts
// the application's completed reviews from the assignment rows in the same
// transaction. Recounting instead of incrementing keeps the counter correct
// even if a previous write raced.
func (s *Store) CompleteReview(ctx context.Context, a *models.ReviewAssignment) (*models.Application, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE review_assignments SET
			status = $2, score = $3,
			innovation_score = $4, market_score = $5, team_score = $6, execution_score = $7,
			feedback = $8, completed_at = NOW()
		WHERE id = $1
		RETURNING completed_at`,
		a.ID, models.AssignmentCompleted, a.Score,
		a.InnovationScore, a.MarketScore, a.TeamScore, a.ExecutionScore,
		a.Feedback,
	).Scan(&a.CompletedAt)
	if err != nil {
		return nil, mapErr(err, "assignment")
	}
	a.Status = models.AssignmentCompleted

	row := tx.QueryRow(ctx, `
		UPDATE applications SET
			reviews_completed = (
				SELECT COUNT(*) FROM review_assignments
				WHERE application_id = $1 AND status = $2
			),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+applicationCols,
		a.ApplicationID, models.AssignmentCompleted)
	app, err := scanApplication(row)
	if err != nil {
		return nil, mapErr(err, "application")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return app, nil
}
