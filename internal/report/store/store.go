package store

import (
	"context"
	"database/sql"
	"fmt"

	campaignstore "github.com/MrJamesThe3rd/fundly/internal/campaign/store"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
	"github.com/MrJamesThe3rd/fundly/internal/report"
)

// Store implements report.Repository.
type Store struct {
	*campaignstore.Store
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{Store: campaignstore.New(db), db: db}
}

func (s *Store) ListAllocationLines(ctx context.Context, filter ledger.AllocationFilter) ([]report.Line, error) {
	query := `
		SELECT
			fa.external_id, fa.created_at, fa.allocated_amount,
			d.external_id, d.timestamp, d.donor_id, COALESCE(p.name, ''),
			e.external_id, e.description, e.deleted_at IS NOT NULL
		FROM fund_allocations fa
		JOIN donations d ON d.id = fa.donation_id
		JOIN expenses e ON e.id = fa.expense_id
		LEFT JOIN placements p ON p.id = d.placement_id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.CampaignID != nil {
		query += fmt.Sprintf(" AND e.campaign_id = $%d", argIdx)

		args = append(args, *filter.CampaignID)
		argIdx++
	}

	if filter.DonationID != nil {
		query += fmt.Sprintf(" AND fa.donation_id = $%d", argIdx)

		args = append(args, *filter.DonationID)
		argIdx++
	}

	if filter.ExpenseID != nil {
		query += fmt.Sprintf(" AND fa.expense_id = $%d", argIdx)

		args = append(args, *filter.ExpenseID)
	}

	query += " ORDER BY fa.created_at ASC, fa.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing allocation lines: %w", err)
	}
	defer rows.Close()

	var lines []report.Line

	for rows.Next() {
		var l report.Line

		if err := rows.Scan(
			&l.AllocationID, &l.AllocatedAt, &l.Amount,
			&l.DonationID, &l.DonationTimestamp, &l.DonorID, &l.PlacementName,
			&l.ExpenseID, &l.ExpenseDesc, &l.ExpenseDeleted,
		); err != nil {
			return nil, fmt.Errorf("scanning allocation line: %w", err)
		}

		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating allocation lines: %w", err)
	}

	return lines, nil
}

func (s *Store) ListExpenseLines(ctx context.Context, campaignID int64) ([]report.ExpenseLine, error) {
	query := `
		SELECT
			e.external_id, e.timestamp, e.description, e.amount,
			COALESCE((SELECT SUM(fa.allocated_amount) FROM fund_allocations fa WHERE fa.expense_id = e.id), 0),
			e.receipt_url,
			e.deleted_at IS NOT NULL
		FROM expenses e
		WHERE e.campaign_id = $1
		ORDER BY e.timestamp ASC, e.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing expense lines: %w", err)
	}
	defer rows.Close()

	var lines []report.ExpenseLine

	for rows.Next() {
		var l report.ExpenseLine

		if err := rows.Scan(&l.ExpenseID, &l.Timestamp, &l.Description, &l.Amount, &l.Allocated, &l.ReceiptURL, &l.Deleted); err != nil {
			return nil, fmt.Errorf("scanning expense line: %w", err)
		}

		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense lines: %w", err)
	}

	return lines, nil
}

func (s *Store) ApprovedWithdrawals(ctx context.Context, campaignID int64) (money.Money, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM fund_withdrawal_requests
		WHERE campaign_id = $1 AND status = 'approved'
	`

	var total money.Money
	if err := s.db.QueryRowContext(ctx, query, campaignID).Scan(&total); err != nil {
		return money.Zero, fmt.Errorf("summing approved withdrawals: %w", err)
	}

	return total, nil
}
