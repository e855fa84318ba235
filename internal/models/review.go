package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "PENDING"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
	AssignmentRejected   AssignmentStatus = "REJECTED"
	AssignmentWithdrawn  AssignmentStatus = "WITHDRAWN"
	AssignmentOverdue    AssignmentStatus = "OVERDUE"
)

func ParseAssignmentStatus(raw string) (AssignmentStatus, error) {
	switch AssignmentStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case AssignmentPending:
		return AssignmentPending, nil
	case AssignmentInProgress:
		return AssignmentInProgress, nil
	case AssignmentCompleted:
		return AssignmentCompleted, nil
	case AssignmentRejected:
		return AssignmentRejected, nil
	case AssignmentWithdrawn:
		return AssignmentWithdrawn, nil
	case AssignmentOverdue:
		return AssignmentOverdue, nil
	}
	return "", fmt.Errorf("unknown assignment status %q", raw)
}

// Terminal assignments are never flipped to OVERDUE. An OVERDUE assignment can
// still be completed, so OVERDUE itself is not terminal.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentCompleted || s == AssignmentRejected || s == AssignmentWithdrawn
}

type ReviewAssignment struct {
	ID              uuid.UUID        `json:"id"`
	ReviewerID      uuid.UUID        `json:"reviewer_id"`
	ApplicationID   uuid.UUID        `json:"application_id"`
	Status          AssignmentStatus `json:"status"`
	DueDate         *time.Time       `json:"due_date"`
	Score           int              `json:"score"`
	InnovationScore int              `json:"innovation_score"`
	MarketScore     int              `json:"market_score"`
	TeamScore       int              `json:"team_score"`
	ExecutionScore  int              `json:"execution_score"`
	Feedback        string           `json:"feedback"`
	AssignedAt      time.Time        `json:"assigned_at"`
	CompletedAt     *time.Time       `json:"completed_at"`
}

// ReviewView is the visibility-filtered projection returned to callers of the
// review listing. ReviewerID is omitted and ReviewerLabel set to a placeholder
// when the caller is not allowed to see reviewer identity.
type ReviewView struct {
	ID              uuid.UUID        `json:"id"`
	ApplicationID   uuid.UUID        `json:"application_id"`
	ReviewerID      *uuid.UUID       `json:"reviewer_id,omitempty"`
	ReviewerLabel   string           `json:"reviewer_label"`
	Status          AssignmentStatus `json:"status"`
	Score           int              `json:"score"`
	InnovationScore int              `json:"innovation_score"`
	MarketScore     int              `json:"market_score"`
	TeamScore       int              `json:"team_score"`
	ExecutionScore  int              `json:"execution_score"`
	Feedback        string           `json:"feedback"`
	CompletedAt     *time.Time       `json:"completed_at"`
}
