package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
)

type fakeNotifyStore struct {
	notifications map[uuid.UUID]*models.Notification
	emails        map[uuid.UUID]string
	createErr     error
}

func newFakeNotifyStore() *fakeNotifyStore {
	return &fakeNotifyStore{
		notifications: map[uuid.UUID]*models.Notification{},
		emails:        map[uuid.UUID]string{},
	}
}

func (f *fakeNotifyStore) CreateNotification(_ context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *n
	f.notifications[n.ID] = &cp
	return nil
}

func (f *fakeNotifyStore) ListNotifications(_ context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotifyStore) GetNotification(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, apperr.NotFoundf("notification not found")
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotifyStore) MarkNotificationRead(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, apperr.NotFoundf("notification not found")
	}
	n.IsRead = true
	now := time.Now()
	if n.ReadAt == nil {
		n.ReadAt = &now
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotifyStore) GetUserEmail(_ context.Context, userID uuid.UUID) (string, error) {
	email, ok := f.emails[userID]
	if !ok {
		return "", apperr.NotFoundf("user not found")
	}
	return email, nil
}

type channelMailer struct {
	sent chan string
}

func (m *channelMailer) Send(_ context.Context, to, _, _ string) error {
	m.sent <- to
	return nil
}

func TestEmit_WritesRowAndSendsEmail(t *testing.T) {
	store := newFakeNotifyStore()
	userID := uuid.New()
	store.emails[userID] = "founder@example.com"
	mailer := &channelMailer{sent: make(chan string, 1)}
	e := NewEmitter(store, mailer, zap.NewNop())

	e.Emit(context.Background(), userID, "Application approved", "Congrats", "APPLICATION_STATUS", "/applications/x")

	require.Len(t, store.notifications, 1)
	for _, n := range store.notifications {
		assert.Equal(t, userID, n.UserID)
		assert.False(t, n.IsRead)
	}

	select {
	case to := <-mailer.sent:
		assert.Equal(t, "founder@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("email was never sent")
	}
}

func TestEmit_StoreFailureIsSwallowed(t *testing.T) {
	store := newFakeNotifyStore()
	store.createErr = errors.New("db down")
	mailer := &channelMailer{sent: make(chan string, 1)}
	e := NewEmitter(store, mailer, zap.NewNop())

	// Must not panic or block; the caller's operation already succeeded.
	e.Emit(context.Background(), uuid.New(), "t", "m", "X", "")

	assert.Empty(t, store.notifications)
	select {
	case <-mailer.sent:
		t.Fatal("email must not be attempted when the row write failed")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEmit_MissingMailerDefaultsToNop(t *testing.T) {
	store := newFakeNotifyStore()
	userID := uuid.New()
	store.emails[userID] = "x@example.com"
	e := NewEmitter(store, nil, zap.NewNop())

	e.Emit(context.Background(), userID, "t", "m", "X", "")

	assert.Len(t, store.notifications, 1)
}

func TestMarkRead_OwnerOnly(t *testing.T) {
	store := newFakeNotifyStore()
	owner := uuid.New()
	n := &models.Notification{ID: uuid.New(), UserID: owner}
	store.notifications[n.ID] = n
	e := NewEmitter(store, nil, zap.NewNop())

	_, err := e.MarkRead(context.Background(), n.ID, auth.Principal{UserID: uuid.New(), Role: models.RoleEntrepreneur})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := e.MarkRead(context.Background(), n.ID, auth.Principal{UserID: owner, Role: models.RoleEntrepreneur})
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.NotNil(t, got.ReadAt)
}
