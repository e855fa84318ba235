package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApplicationStatus_CaseInsensitive(t *testing.T) {
	for _, raw := range []string{"approved", "APPROVED", " Approved "} {
		status, err := ParseApplicationStatus(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, StatusApproved, status)
	}

	_, err := ParseApplicationStatus("ACCEPTED")
	assert.Error(t, err)
}

func TestParseRole_RejectsUnknown(t *testing.T) {
	role, err := ParseRole("sponsor")
	require.NoError(t, err)
	assert.Equal(t, RoleSponsor, role)

	_, err = ParseRole("SUPERUSER")
	assert.Error(t, err)
}

func TestAssignmentStatusTerminal(t *testing.T) {
	assert.True(t, AssignmentCompleted.Terminal())
	assert.True(t, AssignmentRejected.Terminal())
	assert.True(t, AssignmentWithdrawn.Terminal())
	assert.False(t, AssignmentOverdue.Terminal(), "overdue assignments can still be completed")
	assert.False(t, AssignmentPending.Terminal())
	assert.False(t, AssignmentInProgress.Terminal())
}

func TestApplicationStatusTerminal(t *testing.T) {
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusWithdrawn.Terminal())
	assert.False(t, StatusSubmitted.Terminal())
	assert.False(t, StatusUnderReview.Terminal())
	assert.False(t, StatusMoreInfoRequired.Terminal())
}

func TestParseExpenseStatus(t *testing.T) {
	status, err := ParseExpenseStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, ExpenseApproved, status)

	_, err = ParseExpenseStatus("PAID")
	assert.Error(t, err)
}
