package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/david/accel-hub/internal/models"
)

const notificationCols = `id, user_id, title, message, type, link, is_read, read_at, created_at`

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Link,
		&n.IsRead, &n.ReadAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.Link,
	).Scan(&n.CreatedAt)
	return mapErr(err, "notification")
}

func (s *Store) ListNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+notificationCols+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapErr(err, "notifications")
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, mapErr(err, "notifications")
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (s *Store) GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+notificationCols+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		return nil, mapErr(err, "notification")
	}
	return n, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1
		RETURNING `+notificationCols, id)
	n, err := scanNotification(row)
	if err != nil {
		return nil, mapErr(err, "notification")
	}
	return n, nil
}
