package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	campaignstore "github.com/MrJamesThe3rd/fundly/internal/campaign/store"
	"github.com/MrJamesThe3rd/fundly/internal/database"
	"github.com/MrJamesThe3rd/fundly/internal/donation"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	ledgerstore "github.com/MrJamesThe3rd/fundly/internal/ledger/store"
)

// Store implements donation.Repository. Campaign and placement lookups come
// from the embedded campaign store.
type Store struct {
	*campaignstore.Store
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{Store: campaignstore.New(db), db: db}
}

func (s *Store) CreateDonation(ctx context.Context, d *ledger.Donation) error {
	query := `
		INSERT INTO donations (campaign_id, placement_id, donor_id, amount, timestamp, transaction_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, external_id
	`

	err := s.db.QueryRowContext(ctx, query,
		d.CampaignID,
		d.PlacementID,
		d.DonorID,
		d.Amount,
		d.Timestamp,
		d.TransactionID,
		d.Status,
	).Scan(&d.ID, &d.ExternalID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return donation.ErrDuplicateTransaction
		}

		return fmt.Errorf("creating donation: %w", err)
	}

	return nil
}

func (s *Store) getDonation(ctx context.Context, where string, arg any) (*ledger.Donation, error) {
	query := `SELECT ` + ledgerstore.DonationColumns + ` FROM donations d WHERE ` + where

	d, err := ledgerstore.ScanDonation(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting donation: %w", err)
	}

	return d, nil
}

func (s *Store) GetDonationByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Donation, error) {
	return s.getDonation(ctx, `d.external_id = $1`, externalID)
}

func (s *Store) GetDonationByTransactionID(ctx context.Context, transactionID string) (*ledger.Donation, error) {
	return s.getDonation(ctx, `d.transaction_id = $1`, transactionID)
}

func (s *Store) ListDonations(ctx context.Context, filter donation.ListFilter) ([]*ledger.Donation, error) {
	query := `SELECT ` + ledgerstore.DonationColumns + ` FROM donations d WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.CampaignID != nil {
		query += fmt.Sprintf(" AND d.campaign_id = $%d", argIdx)

		args = append(args, *filter.CampaignID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND d.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Credited != nil {
		query += fmt.Sprintf(" AND d.is_credited = $%d", argIdx)

		args = append(args, *filter.Credited)
	}

	query += " ORDER BY d.timestamp ASC, d.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	defer rows.Close()

	var donations []*ledger.Donation

	for rows.Next() {
		d, err := ledgerstore.ScanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning donation: %w", err)
		}

		donations = append(donations, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating donation rows: %w", err)
	}

	return donations, nil
}

func (s *Store) TransitionStatus(ctx context.Context, id int64, status ledger.DonationStatus) (bool, error) {
	query := `UPDATE donations SET status = $1 WHERE id = $2 AND status = 'pending'`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("updating donation status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking donation status update: %w", err)
	}

	return n == 1, nil
}
