package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
)

type Store interface {
	GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)

	GetAssignment(ctx context.Context, id uuid.UUID) (*models.ReviewAssignment, error)
	AssignmentExists(ctx context.Context, reviewerID, applicationID uuid.UUID) (bool, error)
	// CreateAssignment inserts the assignment, bumps the application's
	// reviews_total and advances SUBMITTED to UNDER_REVIEW, all in one
	// transaction. Returns the updated application.
	CreateAssignment(ctx context.Context, a *models.ReviewAssignment) (*models.Application, error)
	ListAssignmentsByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]models.ReviewAssignment, error)
	ListAssignmentsByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.ReviewAssignment, error)
	MarkAssignmentsOverdue(ctx context.Context, ids []uuid.UUID) error
	// CompleteReview stamps the assignment COMPLETED and recounts the
	// application's completed reviews in the same transaction.
	CompleteReview(ctx context.Context, a *models.ReviewAssignment) (*models.Application, error)
}

type Notifier interface {
	Emit(ctx context.Context, userID uuid.UUID, title, message, typ, link string)
}

type Service struct {
	store    Store
	notifier Notifier
	log      *zap.Logger
	sanitize *bluemonday.Policy
	now      func() time.Time
}

func NewService(store Store, notifier Notifier, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log,
		sanitize: bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

func (s *Service) AssignReviewer(ctx context.Context, applicationID, reviewerID uuid.UUID, dueDate *time.Time, actor auth.Principal) (*models.ReviewAssignment, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbiddenf("only admins can assign reviewers")
	}

	reviewer, err := s.store.GetUser(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if reviewer.Role != models.RoleReviewer {
		return nil, apperr.Validationf("user %s does not hold the REVIEWER role", reviewerID)
	}

	if _, err := s.store.GetApplication(ctx, applicationID); err != nil {
		return nil, err
	}

	exists, err := s.store.AssignmentExists(ctx, reviewerID, applicationID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflictf("reviewer %s is already assigned to application %s", reviewerID, applicationID)
	}

	due := dueDate
	if due == nil {
		d := s.now().Add(DefaultDueIn)
		due = &d
	}

	assignment := &models.ReviewAssignment{
		ID:            uuid.New(),
		ReviewerID:    reviewerID,
		ApplicationID: applicationID,
		Status:        models.AssignmentPending,
		DueDate:       due,
		AssignedAt:    s.now(),
	}

	if _, err := s.store.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, reviewerID, "New review assignment",
		fmt.Sprintf("You have been assigned an application to review, due %s.", due.Format("2006-01-02")),
		"REVIEW_ASSIGNED", fmt.Sprintf("/reviewer/assignments/%s", assignment.ID))

	return assignment, nil
}

func (s *Service) SubmitReview(ctx context.Context, assignmentID uuid.UUID, scores Scores, feedback string, actor auth.Principal) (*models.ReviewAssignment, error) {
	assignment, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.ReviewerID != actor.UserID {
		return nil, apperr.Forbiddenf("only the assigned reviewer can submit this review")
	}
	if assignment.Status == models.AssignmentCompleted {
		return nil, apperr.Conflictf("review already completed")
	}
	if err := scores.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	assignment.InnovationScore = scores.Innovation
	assignment.MarketScore = scores.Market
	assignment.TeamScore = scores.Team
	assignment.ExecutionScore = scores.Execution
	assignment.Score = scores.Overall()
	assignment.Feedback = s.sanitize.Sanitize(feedback)
	assignment.Status = models.AssignmentCompleted
	assignment.CompletedAt = &now

	app, err := s.store.CompleteReview(ctx, assignment)
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, app.UserID, "New review received",
		fmt.Sprintf("A reviewer has completed their evaluation of %s.", app.StartupName),
		"REVIEW_COMPLETED", fmt.Sprintf("/applications/%s", app.ID))

	if app.ReviewsCompleted == app.ReviewsTotal {
		adminIDs, err := s.store.ListAdminIDs(ctx)
		if err != nil {
			s.log.Error("listing admins for review-complete notification failed", zap.Error(err))
			return assignment, nil
		}
		for _, adminID := range adminIDs {
			s.notifier.Emit(ctx, adminID, "All reviews completed",
				fmt.Sprintf("Application %s has received all %d reviews and is ready for a decision.", app.ID, app.ReviewsTotal),
				"REVIEWS_COMPLETE", fmt.Sprintf("/applications/%s", app.ID))
		}
	}

	return assignment, nil
}

// ListAssignments returns the reviewer's assignments, flipping past-due
// non-terminal ones to OVERDUE on the way out (write-through on read).
func (s *Service) ListAssignments(ctx context.Context, reviewerID uuid.UUID) ([]models.ReviewAssignment, error) {
	assignments, err := s.store.ListAssignmentsByReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var overdueIDs []uuid.UUID
	for i := range assignments {
		if IsOverdueAt(assignments[i], now) {
			assignments[i].Status = models.AssignmentOverdue
			overdueIDs = append(overdueIDs, assignments[i].ID)
		}
	}
	if len(overdueIDs) > 0 {
		if err := s.store.MarkAssignmentsOverdue(ctx, overdueIDs); err != nil {
			// The flip is retried on the next read; serve the in-memory view.
			s.log.Error("marking assignments overdue failed", zap.Error(err))
		}
	}

	SortAssignments(assignments)
	return assignments, nil
}

func (s *Service) ListReviews(ctx context.Context, applicationID uuid.UUID, actor auth.Principal) ([]models.ReviewView, error) {
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.ListAssignmentsByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return VisibleReviews(app, assignments, actor)
}
