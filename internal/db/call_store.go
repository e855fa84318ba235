package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/david/accel-hub/internal/models"
)

const callCols = `id, title, description, deadline, status, created_at, updated_at`

func scanCall(row pgx.Row) (*models.StartupCall, error) {
	var c models.StartupCall
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Deadline, &c.Status,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCall(ctx context.Context, c *models.StartupCall) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO startup_calls (id, title, description, deadline, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		c.ID, c.Title, c.Description, c.Deadline, c.Status,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapErr(err, "startup call")
}

func (s *Store) GetCall(ctx context.Context, id uuid.UUID) (*models.StartupCall, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+callCols+` FROM startup_calls WHERE id = $1`, id)
	c, err := scanCall(row)
	if err != nil {
		return nil, mapErr(err, "startup call")
	}
	return c, nil
}

func (s *Store) ListCalls(ctx context.Context) ([]models.StartupCall, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+callCols+` FROM startup_calls ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr(err, "startup calls")
	}
	defer rows.Close()

	out := []models.StartupCall{}
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, mapErr(err, "startup calls")
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCallStatus(ctx context.Context, id uuid.UUID, status string) (*models.StartupCall, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE startup_calls SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+callCols, id, status)
	c, err := scanCall(row)
	if err != nil {
		return nil, mapErr(err, "startup call")
	}
	return c, nil
}
