package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/david/accel-hub/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.ApplicationStatus
		to      models.ApplicationStatus
		allowed bool
	}{
		{"submitted to under review", models.StatusSubmitted, models.StatusUnderReview, true},
		{"submitted to rejected", models.StatusSubmitted, models.StatusRejected, true},
		{"submitted to more info", models.StatusSubmitted, models.StatusMoreInfoRequired, true},
		{"submitted straight to approved", models.StatusSubmitted, models.StatusApproved, false},
		{"under review to approved", models.StatusUnderReview, models.StatusApproved, true},
		{"under review to rejected", models.StatusUnderReview, models.StatusRejected, true},
		{"under review back to submitted", models.StatusUnderReview, models.StatusSubmitted, false},
		{"more info back to under review", models.StatusMoreInfoRequired, models.StatusUnderReview, true},
		{"more info to rejected", models.StatusMoreInfoRequired, models.StatusRejected, true},
		{"more info to approved", models.StatusMoreInfoRequired, models.StatusApproved, false},
		{"approved is terminal", models.StatusApproved, models.StatusUnderReview, false},
		{"rejected is terminal", models.StatusRejected, models.StatusUnderReview, false},
		{"withdrawn is terminal", models.StatusWithdrawn, models.StatusSubmitted, false},
		{"same status is a no-op", models.StatusUnderReview, models.StatusUnderReview, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestAllowedTargets_TerminalStatusesAreEmpty(t *testing.T) {
	for _, status := range []models.ApplicationStatus{
		models.StatusApproved, models.StatusRejected, models.StatusWithdrawn,
	} {
		assert.Empty(t, AllowedTargets(status), "status %s", status)
	}
}

func TestAllowedTargets_ReturnsACopy(t *testing.T) {
	targets := AllowedTargets(models.StatusSubmitted)
	targets[0] = models.StatusApproved

	assert.False(t, CanTransition(models.StatusSubmitted, models.StatusApproved))
}
