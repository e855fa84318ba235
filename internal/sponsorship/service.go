package sponsorship

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
)

type Store interface {
	GetOpportunity(ctx context.Context, id uuid.UUID) (*models.SponsorshipOpportunity, error)
	ListOpportunities(ctx context.Context) ([]models.SponsorshipOpportunity, error)
	CreateOpportunity(ctx context.Context, o *models.SponsorshipOpportunity) error

	// HasActivePledge reports whether the sponsor already has a PENDING or
	// ACCEPTED application for the opportunity.
	HasActivePledge(ctx context.Context, opportunityID, sponsorID uuid.UUID) (bool, error)
	CreatePledge(ctx context.Context, a *models.SponsorshipApplication) error
	GetPledge(ctx context.Context, id uuid.UUID) (*models.SponsorshipApplication, error)
	UpdatePledgeStatus(ctx context.Context, id uuid.UUID, status string) (*models.SponsorshipApplication, error)
}

type Notifier interface {
	Emit(ctx context.Context, userID uuid.UUID, title, message, typ, link string)
}

type Service struct {
	store    Store
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store Store, notifier Notifier, log *zap.Logger) *Service {
	return &Service{store: store, notifier: notifier, log: log, now: time.Now}
}

type CreateOpportunityInput struct {
	Title     string     `json:"title"`
	MinAmount float64    `json:"min_amount"`
	MaxAmount float64    `json:"max_amount"`
	Currency  string     `json:"currency"`
	Deadline  *time.Time `json:"deadline"`
}

func (s *Service) CreateOpportunity(ctx context.Context, input CreateOpportunityInput) (*models.SponsorshipOpportunity, error) {
	if input.Title == "" {
		return nil, apperr.Validationf("title is required")
	}
	if input.MinAmount < 0 || input.MaxAmount < input.MinAmount {
		return nil, apperr.Validationf("amount range is invalid")
	}
	if input.Currency == "" {
		return nil, apperr.Validationf("currency is required")
	}

	o := &models.SponsorshipOpportunity{
		ID:        uuid.New(),
		Title:     input.Title,
		MinAmount: input.MinAmount,
		MaxAmount: input.MaxAmount,
		Currency:  strings.ToUpper(input.Currency),
		Deadline:  input.Deadline,
		Status:    "OPEN",
	}
	if err := s.store.CreateOpportunity(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) ListOpportunities(ctx context.Context) ([]models.SponsorshipOpportunity, error) {
	return s.store.ListOpportunities(ctx)
}

// Apply records a sponsor's pledge against an open opportunity.
func (s *Service) Apply(ctx context.Context, opportunityID uuid.UUID, amount float64, currency string, actor auth.Principal) (*models.SponsorshipApplication, error) {
	if actor.Role != models.RoleSponsor {
		return nil, apperr.Forbiddenf("only sponsors can pledge")
	}

	opp, err := s.store.GetOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if err := ValidatePledge(opp, amount, currency, s.now()); err != nil {
		return nil, err
	}

	active, err := s.store.HasActivePledge(ctx, opportunityID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperr.Conflictf("sponsor already has a pending or accepted application for this opportunity")
	}

	pledge := &models.SponsorshipApplication{
		ID:            uuid.New(),
		OpportunityID: opportunityID,
		SponsorID:     actor.UserID,
		Amount:        amount,
		Currency:      opp.Currency,
		Status:        models.SponsorshipPending,
	}
	if err := s.store.CreatePledge(ctx, pledge); err != nil {
		return nil, err
	}
	return pledge, nil
}

// Decide accepts or rejects a pending pledge and notifies the sponsor.
func (s *Service) Decide(ctx context.Context, pledgeID uuid.UUID, accept bool, actor auth.Principal) (*models.SponsorshipApplication, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbiddenf("only admins can decide on sponsorship applications")
	}

	pledge, err := s.store.GetPledge(ctx, pledgeID)
	if err != nil {
		return nil, err
	}
	if pledge.Status != models.SponsorshipPending {
		return nil, apperr.Conflictf("sponsorship application is already %s", pledge.Status)
	}

	status := models.SponsorshipRejected
	if accept {
		status = models.SponsorshipAccepted
	}
	updated, err := s.store.UpdatePledgeStatus(ctx, pledgeID, status)
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, updated.SponsorID, "Sponsorship application "+strings.ToLower(status),
		fmt.Sprintf("Your pledge of %.2f %s was %s.", updated.Amount, updated.Currency, strings.ToLower(status)),
		"SPONSORSHIP_STATUS", fmt.Sprintf("/opportunities/%s", updated.OpportunityID))

	return updated, nil
}
