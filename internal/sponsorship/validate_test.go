package sponsorship

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/models"
)

func TestValidatePledge(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)

	base := models.SponsorshipOpportunity{
		Status:    "OPEN",
		Currency:  "USD",
		MinAmount: 1000,
		MaxAmount: 50000,
		Deadline:  &future,
	}

	tests := []struct {
		name     string
		mutate   func(o *models.SponsorshipOpportunity)
		amount   float64
		currency string
		wantErr  error
	}{
		{"valid pledge", nil, 10000, "USD", nil},
		{"currency case insensitive", nil, 10000, "usd", nil},
		{"amount at lower bound", nil, 1000, "USD", nil},
		{"amount at upper bound", nil, 50000, "USD", nil},
		{"closed opportunity", func(o *models.SponsorshipOpportunity) { o.Status = "CLOSED" }, 10000, "USD", apperr.ErrConflict},
		{"deadline passed", func(o *models.SponsorshipOpportunity) { o.Deadline = &past }, 10000, "USD", apperr.ErrValidation},
		{"wrong currency", nil, 10000, "EUR", apperr.ErrValidation},
		{"below minimum", nil, 999, "USD", apperr.ErrValidation},
		{"above maximum", nil, 50001, "USD", apperr.ErrValidation},
		{"no deadline is fine", func(o *models.SponsorshipOpportunity) { o.Deadline = nil }, 10000, "USD", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp := base
			if tt.mutate != nil {
				tt.mutate(&opp)
			}
			err := ValidatePledge(&opp, tt.amount, tt.currency, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
