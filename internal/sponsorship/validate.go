// Package sponsorship handles sponsor-facing funding opportunities and the
// pledges made against them.
package sponsorship

import (
	"strings"
	"time"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/models"
)

// ValidatePledge checks a sponsor's pledge against the opportunity: the
// opportunity must be open and before its deadline, the currency must match
// and the amount must fall within the advertised range.
func ValidatePledge(opp *models.SponsorshipOpportunity, amount float64, currency string, now time.Time) error {
	if opp.Status != "OPEN" {
		return apperr.Conflictf("opportunity is %s", opp.Status)
	}
	if opp.Deadline != nil && !opp.Deadline.After(now) {
		return apperr.Validationf("opportunity deadline has passed")
	}
	if !strings.EqualFold(currency, opp.Currency) {
		return apperr.Validationf("currency must be %s, got %s", opp.Currency, currency)
	}
	if amount < opp.MinAmount || amount > opp.MaxAmount {
		return apperr.Validationf("amount must be between %.2f and %.2f %s",
			opp.MinAmount, opp.MaxAmount, opp.Currency)
	}
	return nil
}
