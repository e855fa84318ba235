// Package workflow owns the legal status values for a startup-call
// application and the transitions between them. Every status write in the
// system goes through this table; the legacy free-transition path was
// deliberately not carried over.
package workflow

import (
	"github.com/david/accel-hub/internal/models"
)

var transitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.StatusSubmitted:        {models.StatusUnderReview, models.StatusRejected, models.StatusMoreInfoRequired},
	models.StatusUnderReview:      {models.StatusApproved, models.StatusRejected, models.StatusMoreInfoRequired},
	models.StatusMoreInfoRequired: {models.StatusUnderReview, models.StatusRejected},
	models.StatusApproved:         {},
	models.StatusRejected:         {},
	models.StatusWithdrawn:        {},
}

// AllowedTargets returns the outbound transitions for a status. Terminal
// statuses return an empty slice.
func AllowedTargets(from models.ApplicationStatus) []models.ApplicationStatus {
	targets := transitions[from]
	out := make([]models.ApplicationStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether from -> to is legal. Re-asserting the current
// status is always a permitted no-op.
func CanTransition(from, to models.ApplicationStatus) bool {
	if from == to {
		return true
	}
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
