package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
)

type fakeAppStore struct {
	apps map[uuid.UUID]*models.Application
}

func (f *fakeAppStore) GetApplication(_ context.Context, id uuid.UUID) (*models.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, apperr.NotFoundf("application not found")
	}
	cp := *app
	return &cp, nil
}

func (f *fakeAppStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, apperr.NotFoundf("application not found")
	}
	app.Status = status
	cp := *app
	return &cp, nil
}

type fakeProvisioner struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeProvisioner) AutoProvision(_ context.Context, callID uuid.UUID, _ *models.Application) error {
	f.calls = append(f.calls, callID)
	return f.err
}

type emittedNotification struct {
	userID uuid.UUID
	typ    string
}

type fakeNotifier struct {
	emitted []emittedNotification
}

func (f *fakeNotifier) Emit(_ context.Context, userID uuid.UUID, _, _, typ, _ string) {
	f.emitted = append(f.emitted, emittedNotification{userID: userID, typ: typ})
}

func newWorkflowFixture(status models.ApplicationStatus) (*Service, *fakeAppStore, *fakeProvisioner, *fakeNotifier, *models.Application) {
	app := &models.Application{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		CallID:      uuid.New(),
		StartupName: "Acme Robotics",
		Status:      status,
	}
	store := &fakeAppStore{apps: map[uuid.UUID]*models.Application{app.ID: app}}
	provisioner := &fakeProvisioner{}
	notifier := &fakeNotifier{}
	svc := NewService(store, provisioner, notifier, zap.NewNop())
	return svc, store, provisioner, notifier, app
}

func adminPrincipal() auth.Principal {
	return auth.Principal{UserID: uuid.New(), Role: models.RoleAdmin}
}

func TestTransition_AdminOnly(t *testing.T) {
	svc, _, _, _, app := newWorkflowFixture(models.StatusSubmitted)

	_, err := svc.Transition(context.Background(), app.ID, "UNDER_REVIEW",
		auth.Principal{UserID: uuid.New(), Role: models.RoleReviewer})

	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestTransition_RejectsUnknownStatus(t *testing.T) {
	svc, _, _, _, app := newWorkflowFixture(models.StatusSubmitted)

	_, err := svc.Transition(context.Background(), app.ID, "BANANA", adminPrincipal())

	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTransition_WithdrawnReservedForOwner(t *testing.T) {
	svc, _, _, _, app := newWorkflowFixture(models.StatusSubmitted)

	_, err := svc.Transition(context.Background(), app.ID, "withdrawn", adminPrincipal())

	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTransition_IllegalMoveIsConflict(t *testing.T) {
	svc, store, _, _, app := newWorkflowFixture(models.StatusSubmitted)

	_, err := svc.Transition(context.Background(), app.ID, "APPROVED", adminPrincipal())

	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, models.StatusSubmitted, store.apps[app.ID].Status)
}

func TestTransition_SameStatusIsNoOp(t *testing.T) {
	svc, _, _, notifier, app := newWorkflowFixture(models.StatusUnderReview)

	got, err := svc.Transition(context.Background(), app.ID, "UNDER_REVIEW", adminPrincipal())

	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, got.Status)
	assert.Empty(t, notifier.emitted, "no-op must not notify")
}

func TestTransition_ApprovalProvisionsBudgetAndNotifiesOwner(t *testing.T) {
	svc, _, provisioner, notifier, app := newWorkflowFixture(models.StatusUnderReview)

	got, err := svc.Transition(context.Background(), app.ID, "approved", adminPrincipal())

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, []uuid.UUID{app.CallID}, provisioner.calls)
	require.Len(t, notifier.emitted, 1)
	assert.Equal(t, app.UserID, notifier.emitted[0].userID)
	assert.Equal(t, "APPLICATION_STATUS", notifier.emitted[0].typ)
}

func TestTransition_ProvisioningFailureDoesNotFailTransition(t *testing.T) {
	svc, store, provisioner, _, app := newWorkflowFixture(models.StatusUnderReview)
	provisioner.err = errors.New("db down")

	got, err := svc.Transition(context.Background(), app.ID, "APPROVED", adminPrincipal())

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, models.StatusApproved, store.apps[app.ID].Status)
}

func TestWithdraw_OwnerOnly(t *testing.T) {
	svc, _, _, _, app := newWorkflowFixture(models.StatusSubmitted)

	_, err := svc.Withdraw(context.Background(), app.ID,
		auth.Principal{UserID: uuid.New(), Role: models.RoleEntrepreneur})

	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestWithdraw_FromNonTerminalStatus(t *testing.T) {
	svc, _, _, _, app := newWorkflowFixture(models.StatusMoreInfoRequired)

	got, err := svc.Withdraw(context.Background(), app.ID,
		auth.Principal{UserID: app.UserID, Role: models.RoleEntrepreneur})

	require.NoError(t, err)
	assert.Equal(t, models.StatusWithdrawn, got.Status)
}

func TestWithdraw_TerminalStatusIsConflict(t *testing.T) {
	svc, _, _, _, app := newWorkflowFixture(models.StatusRejected)

	_, err := svc.Withdraw(context.Background(), app.ID,
		auth.Principal{UserID: app.UserID, Role: models.RoleEntrepreneur})

	assert.ErrorIs(t, err, apperr.ErrConflict)
}
