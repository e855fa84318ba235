package models

import (
	"time"

	"github.com/google/uuid"
)

// Event covers both program events and advertisements published by admins.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	Location    string     `json:"location"`
	Published   bool       `json:"published"`
	CreatedAt   time.Time  `json:"created_at"`
}
