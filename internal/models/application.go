package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusSubmitted        ApplicationStatus = "SUBMITTED"
	StatusUnderReview      ApplicationStatus = "UNDER_REVIEW"
	StatusMoreInfoRequired ApplicationStatus = "MORE_INFO_REQUIRED"
	StatusApproved         ApplicationStatus = "APPROVED"
	StatusRejected         ApplicationStatus = "REJECTED"
	StatusWithdrawn        ApplicationStatus = "WITHDRAWN"
)

// ParseApplicationStatus normalizes casing before matching. Handlers in the
// previous system compared status strings with inconsistent casing; storing a
// single canonical form avoids that entire bug class.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	switch ApplicationStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusSubmitted:
		return StatusSubmitted, nil
	case StatusUnderReview:
		return StatusUnderReview, nil
	case StatusMoreInfoRequired:
		return StatusMoreInfoRequired, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusWithdrawn:
		return StatusWithdrawn, nil
	}
	return "", fmt.Errorf("unknown application status %q", raw)
}

func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusWithdrawn
}

type Application struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"user_id"`
	CallID           uuid.UUID         `json:"call_id"`
	StartupName      string            `json:"startup_name"`
	Pitch            string            `json:"pitch"`
	Market           string            `json:"market"`
	Team             string            `json:"team"`
	Status           ApplicationStatus `json:"status"`
	ReviewsCompleted int               `json:"reviews_completed"`
	ReviewsTotal     int               `json:"reviews_total"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
