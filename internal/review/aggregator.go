// Package review implements reviewer assignment, score aggregation and the
// visibility rules around individual reviews.
package review

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
)

// Scores carries the four sub-scores of a review submission. The overall
// score is always derived from these, never taken from the caller.
type Scores struct {
	Innovation int `json:"innovationScore"`
	Market     int `json:"marketScore"`
	Team       int `json:"teamScore"`
	Execution  int `json:"executionScore"`
}

func (s Scores) Validate() error {
	for _, pair := range []struct {
		name  string
		value int
	}{
		{"innovationScore", s.Innovation},
		{"marketScore", s.Market},
		{"teamScore", s.Team},
		{"executionScore", s.Execution},
	} {
		if pair.value < 0 || pair.value > 100 {
			return apperr.Validationf("%s must be between 0 and 100, got %d", pair.name, pair.value)
		}
	}
	return nil
}

// Overall is the rounded mean of the four sub-scores.
func (s Scores) Overall() int {
	sum := s.Innovation + s.Market + s.Team + s.Execution
	return int(math.Round(float64(sum) / 4))
}

// IsOverdueAt reports whether an assignment should be flipped to OVERDUE:
// due date in the past and status neither terminal nor already OVERDUE.
func IsOverdueAt(a models.ReviewAssignment, now time.Time) bool {
	if a.DueDate == nil || a.Status.Terminal() || a.Status == models.AssignmentOverdue {
		return false
	}
	return a.DueDate.Before(now)
}

// SortAssignments orders non-terminal assignments before terminal ones, then
// by soonest due date with nil due dates last. Sorts in place.
func SortAssignments(assignments []models.ReviewAssignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Status.Terminal() != b.Status.Terminal() {
			return !a.Status.Terminal()
		}
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return false
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		}
		return a.DueDate.Before(*b.DueDate)
	})
}

// VisibleReviews applies the review visibility policy for one application.
//
//   - Admins and assigned reviewers see every assignment with full reviewer
//     identity.
//   - The owning entrepreneur sees only COMPLETED reviews, and only once the
//     application itself is APPROVED or REJECTED; reviewer identity is
//     redacted to an opaque label even then.
//   - Everyone else is forbidden.
func VisibleReviews(app *models.Application, assignments []models.ReviewAssignment, actor auth.Principal) ([]models.ReviewView, error) {
	privileged := actor.IsAdmin()
	if !privileged {
		for _, a := range assignments {
			if a.ReviewerID == actor.UserID {
				privileged = true
				break
			}
		}
	}

	if privileged {
		views := make([]models.ReviewView, 0, len(assignments))
		for _, a := range assignments {
			views = append(views, viewOf(a, true, ""))
		}
		return views, nil
	}

	if app.UserID != actor.UserID {
		return nil, apperr.Forbiddenf("not allowed to view reviews for this application")
	}

	// Owner: nothing until the decision is final, then completed reviews only.
	if app.Status != models.StatusApproved && app.Status != models.StatusRejected {
		return []models.ReviewView{}, nil
	}

	views := make([]models.ReviewView, 0, len(assignments))
	n := 0
	for _, a := range assignments {
		if a.Status != models.AssignmentCompleted {
			continue
		}
		n++
		views = append(views, viewOf(a, false, fmt.Sprintf("Reviewer %d", n)))
	}
	return views, nil
}

func viewOf(a models.ReviewAssignment, withIdentity bool, label string) models.ReviewView {
	v := models.ReviewView{
		ID:              a.ID,
		ApplicationID:   a.ApplicationID,
		Status:          a.Status,
		Score:           a.Score,
		InnovationScore: a.InnovationScore,
		MarketScore:     a.MarketScore,
		TeamScore:       a.TeamScore,
		ExecutionScore:  a.ExecutionScore,
		Feedback:        a.Feedback,
		CompletedAt:     a.CompletedAt,
	}
	if withIdentity {
		id := a.ReviewerID
		v.ReviewerID = &id
		v.ReviewerLabel = id.String()
	} else {
		v.ReviewerLabel = label
	}
	return v
}

// DefaultDueIn is the assignment due window applied when the admin does not
// pick a date.
const DefaultDueIn = 7 * 24 * time.Hour
