package sponsorship

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/david/accel-hub/internal/apperr"
	"github.com/david/accel-hub/internal/auth"
	"github.com/david/accel-hub/internal/models"
)

type fakeSponsorStore struct {
	opportunities map[uuid.UUID]*models.SponsorshipOpportunity
	pledges       map[uuid.UUID]*models.SponsorshipApplication
}

func newFakeSponsorStore() *fakeSponsorStore {
	return &fakeSponsorStore{
		opportunities: map[uuid.UUID]*models.SponsorshipOpportunity{},
		pledges:       map[uuid.UUID]*models.SponsorshipApplication{},
	}
}

func (f *fakeSponsorStore) GetOpportunity(_ context.Context, id uuid.UUID) (*models.SponsorshipOpportunity, error) {
	o, ok := f.opportunities[id]
	if !ok {
		return nil, apperr.NotFoundf("opportunity not found")
	}
	return o, nil
}

func (f *fakeSponsorStore) ListOpportunities(context.Context) ([]models.SponsorshipOpportunity, error) {
	var out []models.SponsorshipOpportunity
	for _, o := range f.opportunities {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeSponsorStore) CreateOpportunity(_ context.Context, o *models.SponsorshipOpportunity) error {
	cp := *o
	f.opportunities[o.ID] = &cp
	return nil
}

func (f *fakeSponsorStore) HasActivePledge(_ context.Context, opportunityID, sponsorID uuid.UUID) (bool, error) {
	for _, p := range f.pledges {
		if p.OpportunityID == opportunityID && p.SponsorID == sponsorID &&
			(p.Status == models.SponsorshipPending || p.Status == models.SponsorshipAccepted) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSponsorStore) CreatePledge(_ context.Context, a *models.SponsorshipApplication) error {
	cp := *a
	f.pledges[a.ID] = &cp
	return nil
}

func (f *fakeSponsorStore) GetPledge(_ context.Context, id uuid.UUID) (*models.SponsorshipApplication, error) {
	p, ok := f.pledges[id]
	if !ok {
		return nil, apperr.NotFoundf("pledge not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeSponsorStore) UpdatePledgeStatus(_ context.Context, id uuid.UUID, status string) (*models.SponsorshipApplication, error) {
	p, ok := f.pledges[id]
	if !ok {
		return nil, apperr.NotFoundf("pledge not found")
	}
	p.Status = status
	cp := *p
	return &cp, nil
}

type sponsorEmitted struct {
	userID uuid.UUID
	typ    string
}

type fakeSponsorNotifier struct {
	emitted []sponsorEmitted
}

func (f *fakeSponsorNotifier) Emit(_ context.Context, userID uuid.UUID, _, _, typ, _ string) {
	f.emitted = append(f.emitted, sponsorEmitted{userID: userID, typ: typ})
}

func newSponsorshipFixture() (*Service, *fakeSponsorStore, *fakeSponsorNotifier, *models.SponsorshipOpportunity) {
	store := newFakeSponsorStore()
	notifier := &fakeSponsorNotifier{}
	svc := NewService(store, notifier, zap.NewNop())

	deadline := time.Now().Add(30 * 24 * time.Hour)
	opp := &models.SponsorshipOpportunity{
		ID:        uuid.New(),
		Title:     "Demo Day Sponsor",
		MinAmount: 1000,
		MaxAmount: 50000,
		Currency:  "USD",
		Deadline:  &deadline,
		Status:    "OPEN",
	}
	store.opportunities[opp.ID] = opp
	return svc, store, notifier, opp
}

func sponsor() auth.Principal {
	return auth.Principal{UserID: uuid.New(), Role: models.RoleSponsor}
}

func TestApply_SponsorsOnly(t *testing.T) {
	svc, _, _, opp := newSponsorshipFixture()

	_, err := svc.Apply(context.Background(), opp.ID, 5000, "USD",
		auth.Principal{UserID: uuid.New(), Role: models.RoleEntrepreneur})

	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestApply_CreatesPendingPledge(t *testing.T) {
	svc, _, _, opp := newSponsorshipFixture()
	actor := sponsor()

	pledge, err := svc.Apply(context.Background(), opp.ID, 5000, "usd", actor)

	require.NoError(t, err)
	assert.Equal(t, models.SponsorshipPending, pledge.Status)
	assert.Equal(t, actor.UserID, pledge.SponsorID)
	assert.Equal(t, "USD", pledge.Currency, "currency normalized to the opportunity's")
}

func TestApply_DuplicateActivePledgeIsConflict(t *testing.T) {
	svc, _, _, opp := newSponsorshipFixture()
	actor := sponsor()

	_, err := svc.Apply(context.Background(), opp.ID, 5000, "USD", actor)
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), opp.ID, 6000, "USD", actor)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDecide_AdminOnly(t *testing.T) {
	svc, _, _, opp := newSponsorshipFixture()
	actor := sponsor()
	pledge, err := svc.Apply(context.Background(), opp.ID, 5000, "USD", actor)
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), pledge.ID, true, actor)

	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestDecide_AcceptNotifiesSponsor(t *testing.T) {
	svc, _, notifier, opp := newSponsorshipFixture()
	actor := sponsor()
	pledge, err := svc.Apply(context.Background(), opp.ID, 5000, "USD", actor)
	require.NoError(t, err)

	updated, err := svc.Decide(context.Background(), pledge.ID, true,
		auth.Principal{UserID: uuid.New(), Role: models.RoleAdmin})

	require.NoError(t, err)
	assert.Equal(t, models.SponsorshipAccepted, updated.Status)
	require.Len(t, notifier.emitted, 1)
	assert.Equal(t, actor.UserID, notifier.emitted[0].userID)
	assert.Equal(t, "SPONSORSHIP_STATUS", notifier.emitted[0].typ)
}

func TestDecide_AlreadyDecidedIsConflict(t *testing.T) {
	svc, _, _, opp := newSponsorshipFixture()
	pledge, err := svc.Apply(context.Background(), opp.ID, 5000, "USD", sponsor())
	require.NoError(t, err)

	admin := auth.Principal{UserID: uuid.New(), Role: models.RoleAdmin}
	_, err = svc.Decide(context.Background(), pledge.ID, false, admin)
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), pledge.ID, true, admin)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}
