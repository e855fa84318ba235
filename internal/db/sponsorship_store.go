package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/david/accel-hub/internal/models"
)

const opportunityCols = `id, title, min_amount, max_amount, currency, deadline, status, created_at`

const pledgeCols = `id, opportunity_id, sponsor_id, amount, currency, status, created_at, updated_at`

func scanOpportunity(row pgx.Row) (*models.SponsorshipOpportunity, error) {
	var o models.SponsorshipOpportunity
	err := row.Scan(&o.ID, &o.Title, &o.MinAmount, &o.MaxAmount, &o.Currency,
		&o.Deadline, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanPledge(row pgx.Row) (*models.SponsorshipApplication, error) {
	var p models.SponsorshipApplication
	err := row.Scan(&p.ID, &p.OpportunityID, &p.SponsorID, &p.Amount, &p.Currency,
		&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetOpportunity(ctx context.Context, id uuid.UUID) (*models.SponsorshipOpportunity, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+opportunityCols+` FROM sponsorship_opportunities WHERE id = $1`, id)
	o, err := scanOpportunity(row)
	if err != nil {
		return nil, mapErr(err, "sponsorship opportunity")
	}
	return o, nil
}

func (s *Store) ListOpportunities(ctx context.Context) ([]models.SponsorshipOpportunity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+opportunityCols+` FROM sponsorship_opportunities ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr(err, "sponsorship opportunities")
	}
	defer rows.Close()

	out := []models.SponsorshipOpportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, mapErr(err, "sponsorship opportunities")
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (s *Store) CreateOpportunity(ctx context.Context, o *models.SponsorshipOpportunity) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sponsorship_opportunities (id, title, min_amount, max_amount, currency, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		o.ID, o.Title, o.MinAmount, o.MaxAmount, o.Currency, o.Deadline, o.Status,
	).Scan(&o.CreatedAt)
	return mapErr(err, "sponsorship opportunity")
}

func (s *Store) HasActivePledge(ctx context.Context, opportunityID, sponsorID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM sponsorship_applications
			WHERE opportunity_id = $1 AND sponsor_id = $2 AND status IN ($3, $4)
		)`,
		opportunityID, sponsorID, models.SponsorshipPending, models.SponsorshipAccepted,
	).Scan(&exists)
	if err != nil {
		return false, mapErr(err, "sponsorship application")
	}
	return exists, nil
}

func (s *Store) CreatePledge(ctx context.Context, a *models.SponsorshipApplication) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sponsorship_applications (id, opportunity_id, sponsor_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		a.ID, a.OpportunityID, a.SponsorID, a.Amount, a.Currency, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return mapErr(err, "sponsorship application")
}

func (s *Store) GetPledge(ctx context.Context, id uuid.UUID) (*models.SponsorshipApplication, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+pledgeCols+` FROM sponsorship_applications WHERE id = $1`, id)
	p, err := scanPledge(row)
	if err != nil {
		return nil, mapErr(err, "sponsorship application")
	}
	return p, nil
}

func (s *Store) UpdatePledgeStatus(ctx context.Context, id uuid.UUID, status string) (*models.SponsorshipApplication, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE sponsorship_applications SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+pledgeCols, id, status)
	p, err := scanPledge(row)
	if err != nil {
		return nil, mapErr(err, "sponsorship application")
	}
	return p, nil
}
