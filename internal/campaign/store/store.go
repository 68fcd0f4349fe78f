package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	ledgerstore "github.com/MrJamesThe3rd/fundly/internal/ledger/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Expected column order: id, external_id, campaign_id, name, url, qr_code_url,
// donation_card_url, created_by, created_at, deleted
const selectPlacementColumns = `
	p.id, p.external_id, p.campaign_id, p.name, p.url, p.qr_code_url,
	p.donation_card_url, p.created_by, p.created_at, p.deleted_at IS NOT NULL
`

func scanPlacement(s ledgerstore.Scanner) (*ledger.Placement, error) {
	var p ledger.Placement

	if err := s.Scan(
		&p.ID, &p.ExternalID, &p.CampaignID, &p.Name, &p.URL, &p.QRCodeURL,
		&p.DonationCardURL, &p.CreatedBy, &p.CreatedAt, &p.Deleted,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Store) CreateCampaign(ctx context.Context, c *ledger.Campaign) error {
	query := `
		INSERT INTO campaigns (title, description, organizer_id, goal_amount, is_active, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, external_id
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Title,
		c.Description,
		c.OrganizerID,
		c.GoalAmount,
		c.IsActive,
		c.StartDate,
		c.EndDate,
	).Scan(&c.ID, &c.ExternalID)
	if err != nil {
		return fmt.Errorf("creating campaign: %w", err)
	}

	return nil
}

func (s *Store) getCampaign(ctx context.Context, where string, arg any) (*ledger.Campaign, error) {
	query := `SELECT ` + ledgerstore.CampaignColumns + ` FROM campaigns c WHERE ` + where

	c, err := ledgerstore.ScanCampaign(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting campaign: %w", err)
	}

	return c, nil
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*ledger.Campaign, error) {
	return s.getCampaign(ctx, `c.id = $1`, id)
}

func (s *Store) GetCampaignByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Campaign, error) {
	return s.getCampaign(ctx, `c.external_id = $1 AND c.deleted_at IS NULL`, externalID)
}

func (s *Store) ListCampaigns(ctx context.Context, filter campaign.ListFilter) ([]*ledger.Campaign, error) {
	query := `SELECT ` + ledgerstore.CampaignColumns + `
		FROM campaigns c
		WHERE c.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.OrganizerID != "" {
		query += fmt.Sprintf(" AND c.organizer_id = $%d", argIdx)

		args = append(args, filter.OrganizerID)
		argIdx++
	}

	if filter.IsActive != nil {
		query += fmt.Sprintf(" AND c.is_active = $%d", argIdx)

		args = append(args, *filter.IsActive)
		argIdx++
	}

	if filter.Verified != nil {
		query += fmt.Sprintf(" AND c.verified = $%d", argIdx)

		args = append(args, *filter.Verified)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (c.title ILIKE $%d OR c.description ILIKE $%d)", argIdx, argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	// OrderBy is one of the campaign.Order constants, never raw input.
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}

	query += fmt.Sprintf(" ORDER BY c.%s %s, c.id %s", orderColumn(filter.OrderBy), direction, direction)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*ledger.Campaign

	for rows.Next() {
		c, err := ledgerstore.ScanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning campaign: %w", err)
		}

		campaigns = append(campaigns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating campaign rows: %w", err)
	}

	return campaigns, nil
}

func orderColumn(o campaign.Order) string {
	switch o {
	case campaign.OrderTotalDonated:
		return "total_donated"
	case campaign.OrderUnallocatedAmount:
		return "unallocated_amount"
	}

	return "start_date"
}

func (s *Store) UpdateCampaignDetails(ctx context.Context, c *ledger.Campaign) error {
	query := `
		UPDATE campaigns
		SET title = $1, description = $2, goal_amount = $3, end_date = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
	`

	_, err := s.db.ExecContext(ctx, query,
		c.Title,
		c.Description,
		c.GoalAmount,
		c.EndDate,
		c.IsActive,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating campaign: %w", err)
	}

	return nil
}

func (s *Store) DeleteCampaign(ctx context.Context, id int64) error {
	query := `
		UPDATE campaigns
		SET deleted_at = NOW(), is_active = FALSE
		WHERE id = $1 AND deleted_at IS NULL
	`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting campaign: %w", err)
	}

	return nil
}

func (s *Store) SetVerified(ctx context.Context, id int64, verified bool) error {
	query := `UPDATE campaigns SET verified = $1, updated_at = NOW() WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, verified, id); err != nil {
		return fmt.Errorf("verifying campaign: %w", err)
	}

	return nil
}

func (s *Store) CreatePlacement(ctx context.Context, p *ledger.Placement) error {
	query := `
		INSERT INTO placements (external_id, campaign_id, name, url, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		p.ExternalID,
		p.CampaignID,
		p.Name,
		p.URL,
		p.CreatedBy,
		p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("creating placement: %w", err)
	}

	return nil
}

func (s *Store) getPlacement(ctx context.Context, where string, arg any) (*ledger.Placement, error) {
	query := `SELECT ` + selectPlacementColumns + ` FROM placements p WHERE ` + where

	p, err := scanPlacement(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting placement: %w", err)
	}

	return p, nil
}

func (s *Store) GetPlacement(ctx context.Context, id int64) (*ledger.Placement, error) {
	return s.getPlacement(ctx, `p.id = $1`, id)
}

func (s *Store) GetPlacementByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Placement, error) {
	return s.getPlacement(ctx, `p.external_id = $1 AND p.deleted_at IS NULL`, externalID)
}

func (s *Store) listPlacements(ctx context.Context, where string, args ...any) ([]*ledger.Placement, error) {
	query := `SELECT ` + selectPlacementColumns + `
		FROM placements p
		WHERE p.deleted_at IS NULL AND ` + where + `
		ORDER BY p.created_at ASC, p.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing placements: %w", err)
	}
	defer rows.Close()

	var placements []*ledger.Placement

	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning placement: %w", err)
		}

		placements = append(placements, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating placement rows: %w", err)
	}

	return placements, nil
}

func (s *Store) ListPlacements(ctx context.Context, campaignID int64) ([]*ledger.Placement, error) {
	return s.listPlacements(ctx, `p.campaign_id = $1`, campaignID)
}

func (s *Store) ListPlacementsMissingAssets(ctx context.Context) ([]*ledger.Placement, error) {
	return s.listPlacements(ctx, `p.qr_code_url = ''`)
}

func (s *Store) UpdatePlacement(ctx context.Context, p *ledger.Placement) error {
	query := `
		UPDATE placements
		SET name = $1, url = $2
		WHERE id = $3 AND deleted_at IS NULL
	`

	if _, err := s.db.ExecContext(ctx, query, p.Name, p.URL, p.ID); err != nil {
		return fmt.Errorf("updating placement: %w", err)
	}

	return nil
}

func (s *Store) SetPlacementAssets(ctx context.Context, id int64, qrCodeURL, donationCardURL string) error {
	query := `
		UPDATE placements
		SET qr_code_url = $1, donation_card_url = $2
		WHERE id = $3
	`

	if _, err := s.db.ExecContext(ctx, query, qrCodeURL, donationCardURL, id); err != nil {
		return fmt.Errorf("saving placement assets: %w", err)
	}

	return nil
}

func (s *Store) DeletePlacement(ctx context.Context, id int64) error {
	query := `UPDATE placements SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting placement: %w", err)
	}

	return nil
}
