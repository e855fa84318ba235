// Package notify appends notification rows as a side effect of state
// transitions and, when configured, sends a best-effort email. Failures in
// this channel are logged and never surfaced to the primary operation.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
)

type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	GetUserEmail(ctx context.Context, userID uuid.UUID) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Emitter struct {
	store  Store
	mailer Mailer
	log    *zap.Logger
}

func NewEmitter(store Store, mailer Mailer, log *zap.Logger) *Emitter {
	if mailer == nil {
		mailer = NopMailer{}
	}
	return &Emitter{store: store, mailer: mailer, log: log}
}

// Emit appends one notification row. No delivery guarantee, no retry, no
// dedup; a failure here never fails the caller's operation.
func (e *Emitter) Emit(ctx context.Context, userID uuid.UUID, title, message, typ, link string) {
	n := &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
		Link:    link,
	}
	if err := e.store.CreateNotification(ctx, n); err != nil {
		e.log.Error("notification write failed",
			zap.String("user_id", userID.String()),
			zap.String("type", typ),
			zap.Error(err))
		return
	}

	// Email detaches from the request lifecycle; the row is already durable.
	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	go func() {
		defer cancel()
		email, err := e.store.GetUserEmail(mailCtx, userID)
		if err != nil {
			e.log.Warn("skipping notification email, no recipient", zap.Error(err))
			return
		}
		if err := e.mailer.Send(mailCtx, email, title, message); err != nil {
			e.log.Warn("notification email failed", zap.String("to", email), zap.Error(err))
		}
	}()
}

func (e *Emitter) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return e.store.ListNotifications(ctx, userID)
}

func (e *Emitter) MarkRead(ctx context.Context, id uuid.UUID, actor auth.Principal) (*models.Notification, error) {
	n, err := e.store.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != actor.UserID {
		return nil, apperr.Forbiddenf("not your notification")
	}
	return e.store.MarkNotificationRead(ctx, id)
}

// NopMailer is used when outbound email is not configured.
type NopMailer struct{}

func (NopMailer) Send(ctx context.Context, to, subject, body string) error { return nil }
