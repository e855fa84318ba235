package models

import (
	"time"

	"github.com/google/uuid"
)

type SponsorshipOpportunity struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	MinAmount float64    `json:"min_amount"`
	MaxAmount float64    `json:"max_amount"`
	Currency  string     `json:"currency"`
	Deadline  *time.Time `json:"deadline"`
	Status    string     `json:"status"` // OPEN or CLOSED
	CreatedAt time.Time  `json:"created_at"`
}

type SponsorshipApplication struct {
	ID            uuid.UUID `json:"id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
	SponsorID     uuid.UUID `json:"sponsor_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"` // PENDING, ACCEPTED, REJECTED, WITHDRAWN
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	SponsorshipPending   = "PENDING"
	SponsorshipAccepted  = "ACCEPTED"
	SponsorshipRejected  = "REJECTED"
	SponsorshipWithdrawn = "WITHDRAWN"
)
