package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/david/accel-hub/internal/models"
)

const eventCols = `id, title, description, starts_at, location, published, created_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartsAt, &e.Location,
		&e.Published, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO events (id, title, description, starts_at, location, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		e.ID, e.Title, e.Description, e.StartsAt, e.Location, e.Published,
	).Scan(&e.CreatedAt)
	return mapErr(err, "event")
}

func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+eventCols+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		return nil, mapErr(err, "event")
	}
	return e, nil
}

// ListEvents returns published events only unless includeUnpublished is set
// (admin listing).
func (s *Store) ListEvents(ctx context.Context, includeUnpublished bool) ([]models.Event, error) {
	query := `SELECT ` + eventCols + ` FROM events`
	if !includeUnpublished {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY starts_at ASC NULLS LAST, created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, mapErr(err, "events")
	}
	defer rows.Close()

	out := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, mapErr(err, "events")
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) PublishEvent(ctx context.Context, id uuid.UUID, published bool) (*models.Event, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE events SET published = $2
		WHERE id = $1
		RETURNING `+eventCols, id, published)
	e, err := scanEvent(row)
	if err != nil {
		return nil, mapErr(err, "event")
	}
	return e, nil
}
