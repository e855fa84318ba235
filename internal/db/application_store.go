package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/david/accel-hub/internal/models"
)

const applicationCols = `id, user_id, call_id, startup_name, pitch, market, team,
	status, reviews_completed, reviews_total, created_at, updated_at`

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.UserID, &a.CallID, &a.StartupName, &a.Pitch, &a.Market, &a.Team,
		&a.Status, &a.ReviewsCompleted, &a.ReviewsTotal, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateApplication(ctx context.Context, a *models.Application) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO applications (id, user_id, call_id, startup_name, pitch, market, team, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.CallID, a.StartupName, a.Pitch, a.Market, a.Team, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return mapErr(err, "application")
}

func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+applicationCols+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		return nil, mapErr(err, "application")
	}
	return a, nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE applications SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+applicationCols, id, status)
	a, err := scanApplication(row)
	if err != nil {
		return nil, mapErr(err, "application")
	}
	return a, nil
}

// ListApplications returns every application for a call, or for a single
// owner when ownerID is non-nil. Newest first.
func (s *Store) ListApplications(ctx context.Context, callID *uuid.UUID, ownerID *uuid.UUID) ([]models.Application, error) {
	query := `SELECT ` + applicationCols + ` FROM applications WHERE 1=1`
	var args []any
	if callID != nil {
		args = append(args, *callID)
		query += ` AND call_id = $1`
	}
	if ownerID != nil {
		args = append(args, *ownerID)
		if len(args) == 1 {
			query += ` AND user_id = $1`
		} else {
			query += ` AND user_id = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, "applications")
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, mapErr(err, "applications")
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}
