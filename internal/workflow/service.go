package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
)

type ApplicationStore interface {
	GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error)
}

type Provisioner interface {
	AutoProvision(ctx context.Context, callID uuid.UUID, app *models.Application) error
}

type Notifier interface {
	Emit(ctx context.Context, userID uuid.UUID, title, message, typ, link string)
}

type Service struct {
	store    ApplicationStore
	budgets  Provisioner
	notifier Notifier
	log      *zap.Logger
}

func NewService(store ApplicationStore, budgets Provisioner, notifier Notifier, log *zap.Logger) *Service {
	return &Service{store: store, budgets: budgets, notifier: notifier, log: log}
}

// Transition moves an application along the state machine. Admin only; the
// owning entrepreneur goes through Withdraw instead.
func (s *Service) Transition(ctx context.Context, appID uuid.UUID, rawTarget string, actor auth.Principal) (*models.Application, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbiddenf("only admins can change application status")
	}

	target, err := models.ParseApplicationStatus(rawTarget)
	if err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	if target == models.StatusWithdrawn {
		return nil, apperr.Validationf("WITHDRAWN is reserved for the application owner")
	}

	app, err := s.store.GetApplication(ctx, appID)
	if err != nil {
		return nil, err
	}

	if app.Status == target {
		return app, nil
	}
	if !CanTransition(app.Status, target) {
		return nil, apperr.Conflictf("cannot move application from %s to %s; allowed: %v",
			app.Status, target, AllowedTargets(app.Status))
	}

	updated, err := s.store.UpdateApplicationStatus(ctx, appID, target)
	if err != nil {
		return nil, err
	}

	if target == models.StatusApproved {
		if err := s.budgets.AutoProvision(ctx, updated.CallID, updated); err != nil {
			// Status is already persisted; provisioning can be repaired by an
			// explicit budget create, so the transition is still reported OK.
			s.log.Error("budget auto-provisioning failed",
				zap.String("application_id", appID.String()), zap.Error(err))
		}
	}

	title, message := statusNotification(target, updated.StartupName)
	s.notifier.Emit(ctx, updated.UserID, title, message, "APPLICATION_STATUS",
		fmt.Sprintf("/applications/%s", updated.ID))

	return updated, nil
}

// Withdraw is the owner's exit from the process, allowed from any non-terminal
// status.
func (s *Service) Withdraw(ctx context.Context, appID uuid.UUID, actor auth.Principal) (*models.Application, error) {
	app, err := s.store.GetApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.UserID != actor.UserID {
		return nil, apperr.Forbiddenf("only the application owner can withdraw it")
	}
	if app.Status.Terminal() {
		return nil, apperr.Conflictf("application is already %s", app.Status)
	}
	return s.store.UpdateApplicationStatus(ctx, appID, models.StatusWithdrawn)
}

func statusNotification(status models.ApplicationStatus, startupName string) (string, string) {
	switch status {
	case models.StatusUnderReview:
		return "Application under review",
			fmt.Sprintf("Your application for %s is now under review.", startupName)
	case models.StatusApproved:
		return "Application approved",
			fmt.Sprintf("Congratulations! Your application for %s has been approved.", startupName)
	case models.StatusRejected:
		return "Application rejected",
			fmt.Sprintf("Your application for %s has not been selected.", startupName)
	case models.StatusMoreInfoRequired:
		return "More information required",
			fmt.Sprintf("Reviewers need more information about your application for %s.", startupName)
	default:
		return "Application updated",
			fmt.Sprintf("Your application for %s changed status to %s.", startupName, status)
	}
}
