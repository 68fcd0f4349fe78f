package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	campaignstore "github.com/MrJamesThe3rd/fundly/internal/campaign/store"
	"github.com/MrJamesThe3rd/fundly/internal/expense"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	ledgerstore "github.com/MrJamesThe3rd/fundly/internal/ledger/store"
)

// Store implements expense.Repository. Campaign lookups come from the
// embedded campaign store.
type Store struct {
	*campaignstore.Store
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{Store: campaignstore.New(db), db: db}
}

func (s *Store) CreateExpense(ctx context.Context, e *ledger.Expense) error {
	query := `
		INSERT INTO expenses (campaign_id, description, amount, timestamp, created_by, receipt_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, external_id
	`

	err := s.db.QueryRowContext(ctx, query,
		e.CampaignID,
		e.Description,
		e.Amount,
		e.Timestamp,
		e.CreatedBy,
		e.ReceiptURL,
	).Scan(&e.ID, &e.ExternalID)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) GetExpenseByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Expense, error) {
	query := `SELECT ` + ledgerstore.ExpenseColumns + `
		FROM expenses e
		WHERE e.external_id = $1 AND e.deleted_at IS NULL`

	e, err := ledgerstore.ScanExpense(s.db.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*ledger.Expense, error) {
	query := `SELECT ` + ledgerstore.ExpenseColumns + `
		FROM expenses e
		WHERE e.deleted_at IS NULL`

	var args []any

	if filter.CampaignID != nil {
		query += " AND e.campaign_id = $1"

		args = append(args, *filter.CampaignID)
	}

	if filter.Underfunded {
		query += ` AND e.amount > (SELECT COALESCE(SUM(fa.allocated_amount), 0) FROM fund_allocations fa WHERE fa.expense_id = e.id)
			AND EXISTS (SELECT 1 FROM campaigns c WHERE c.id = e.campaign_id AND c.unallocated_amount > 0)`
	}

	query += " ORDER BY e.timestamp ASC, e.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*ledger.Expense

	for rows.Next() {
		e, err := ledgerstore.ScanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return expenses, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	query := `UPDATE expenses SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return nil
}

func (s *Store) SetReceiptURL(ctx context.Context, id int64, url string) error {
	query := `UPDATE expenses SET receipt_url = $1 WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, url, id); err != nil {
		return fmt.Errorf("saving receipt url: %w", err)
	}

	return nil
}
