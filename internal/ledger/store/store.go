package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/fundly/internal/database"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
}

// New returns a ledger store. lockTimeout bounds the wait for a campaign lock.
func New(db *sql.DB, lockTimeout time.Duration) *Store {
	return &Store{db: db, lockTimeout: lockTimeout}
}

// Scanner is satisfied by both *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CampaignColumns must be selected from campaigns aliased as c.
const CampaignColumns = `
	c.id, c.external_id, c.title, c.description, c.organizer_id, c.goal_amount,
	c.total_donated, c.unallocated_amount, c.is_active, c.verified, c.deleted_at IS NOT NULL,
	c.start_date, c.end_date
`

// ScanCampaign reads a row selected with CampaignColumns.
func ScanCampaign(s Scanner) (*ledger.Campaign, error) {
	var c ledger.Campaign

	if err := s.Scan(
		&c.ID, &c.ExternalID, &c.Title, &c.Description, &c.OrganizerID, &c.GoalAmount,
		&c.TotalDonated, &c.UnallocatedAmount, &c.IsActive, &c.Verified, &c.Deleted,
		&c.StartDate, &c.EndDate,
	); err != nil {
		return nil, err
	}

	return &c, nil
}

// DonationColumns must be selected from donations aliased as d.
const DonationColumns = `
	d.id, d.external_id, d.campaign_id, d.placement_id, d.donor_id, d.amount, d.timestamp,
	d.transaction_id, d.status, d.is_fully_allocated, d.is_credited,
	COALESCE((SELECT SUM(fa.allocated_amount) FROM fund_allocations fa WHERE fa.donation_id = d.id), 0)
`

// ScanDonation reads a row selected with DonationColumns.
func ScanDonation(s Scanner) (*ledger.Donation, error) {
	var d ledger.Donation

	var status string

	if err := s.Scan(
		&d.ID, &d.ExternalID, &d.CampaignID, &d.PlacementID, &d.DonorID, &d.Amount, &d.Timestamp,
		&d.TransactionID, &status, &d.IsFullyAllocated, &d.Credited,
		&d.Allocated,
	); err != nil {
		return nil, err
	}

	d.Status = ledger.DonationStatus(status)

	return &d, nil
}

const expenseAllocated = `COALESCE((SELECT SUM(fa.allocated_amount) FROM fund_allocations fa WHERE fa.expense_id = e.id), 0)`

// ExpenseColumns must be selected from expenses aliased as e.
const ExpenseColumns = `
	e.id, e.external_id, e.campaign_id, e.description, e.amount, e.timestamp,
	e.created_by, e.receipt_url, e.deleted_at IS NOT NULL,
	` + expenseAllocated

// ScanExpense reads a row selected with ExpenseColumns.
func ScanExpense(s Scanner) (*ledger.Expense, error) {
	var e ledger.Expense

	if err := s.Scan(
		&e.ID, &e.ExternalID, &e.CampaignID, &e.Description, &e.Amount, &e.Timestamp,
		&e.CreatedBy, &e.ReceiptURL, &e.Deleted,
		&e.Allocated,
	); err != nil {
		return nil, err
	}

	return &e, nil
}

const allocationColumns = `fa.id, fa.external_id, fa.donation_id, fa.expense_id, fa.allocated_amount, fa.created_at`

func scanAllocation(s Scanner) (*ledger.FundAllocation, error) {
	var a ledger.FundAllocation

	if err := s.Scan(&a.ID, &a.ExternalID, &a.DonationID, &a.ExpenseID, &a.AllocatedAmount, &a.CreatedAt); err != nil {
		return nil, err
	}

	return &a, nil
}

// classify turns PostgreSQL lock and serialization failures into
// ledger.ErrConcurrencyConflict and balance overflows into ledger.ErrValidation.
func classify(err error) error {
	switch {
	case database.IsRetryable(err):
		return fmt.Errorf("%w: %w", ledger.ErrConcurrencyConflict, err)
	case database.IsOutOfRange(err):
		return fmt.Errorf("%w: amount exceeds %s: %w", ledger.ErrValidation, money.Max, err)
	}

	return err
}

func getDonation(ctx context.Context, q querier, id int64) (*ledger.Donation, error) {
	query := `SELECT ` + DonationColumns + ` FROM donations d WHERE d.id = $1`

	d, err := ScanDonation(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting donation: %w", classify(err))
	}

	return d, nil
}

func getExpense(ctx context.Context, q querier, id int64) (*ledger.Expense, error) {
	query := `SELECT ` + ExpenseColumns + ` FROM expenses e WHERE e.id = $1`

	e, err := ScanExpense(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", classify(err))
	}

	return e, nil
}

func (s *Store) GetDonation(ctx context.Context, id int64) (*ledger.Donation, error) {
	return getDonation(ctx, s.db, id)
}

func (s *Store) GetExpense(ctx context.Context, id int64) (*ledger.Expense, error) {
	return getExpense(ctx, s.db, id)
}

func (s *Store) ListAllocations(ctx context.Context, filter ledger.AllocationFilter) ([]*ledger.FundAllocation, error) {
	query := `SELECT ` + allocationColumns + `
		FROM fund_allocations fa
		JOIN donations d ON d.id = fa.donation_id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.CampaignID != nil {
		query += fmt.Sprintf(" AND d.campaign_id = $%d", argIdx)

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
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	defer rows.Close()

	var allocs []*ledger.FundAllocation

	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning allocation: %w", err)
		}

		allocs = append(allocs, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating allocation rows: %w", err)
	}

	return allocs, nil
}

type allocationTx struct {
	tx *sql.Tx
}

func (s *Store) BeginAllocation(ctx context.Context, campaignID int64) (ledger.AllocationTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning allocation tx: %w", err)
	}

	if err := database.LockCampaign(ctx, dbTx, campaignID, s.lockTimeout); err != nil {
		dbTx.Rollback()
		return nil, classify(err)
	}

	return &allocationTx{tx: dbTx}, nil
}

func (atx *allocationTx) Commit() error   { return classify(atx.tx.Commit()) }
func (atx *allocationTx) Rollback() error { return atx.tx.Rollback() }

func (atx *allocationTx) LockCampaign(ctx context.Context, id int64) (*ledger.Campaign, error) {
	query := `SELECT ` + CampaignColumns + ` FROM campaigns c WHERE c.id = $1 FOR UPDATE`

	c, err := ScanCampaign(atx.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("locking campaign: %w", classify(err))
	}

	return c, nil
}

func (atx *allocationTx) GetDonation(ctx context.Context, id int64) (*ledger.Donation, error) {
	return getDonation(ctx, atx.tx, id)
}

func (atx *allocationTx) GetExpense(ctx context.Context, id int64) (*ledger.Expense, error) {
	return getExpense(ctx, atx.tx, id)
}

func (atx *allocationTx) ListUnderfundedExpenses(ctx context.Context, campaignID int64) ([]*ledger.Expense, error) {
	query := `SELECT ` + ExpenseColumns + `
		FROM expenses e
		WHERE e.campaign_id = $1 AND e.deleted_at IS NULL AND e.amount > ` + expenseAllocated + `
		ORDER BY e.timestamp ASC, e.id ASC`

	rows, err := atx.tx.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing underfunded expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*ledger.Expense

	for rows.Next() {
		e, err := ScanExpense(rows)
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

func (atx *allocationTx) ListUnallocatedDonations(ctx context.Context, campaignID int64) ([]*ledger.Donation, error) {
	query := `SELECT ` + DonationColumns + `
		FROM donations d
		WHERE d.campaign_id = $1 AND d.status = 'success' AND d.is_credited AND NOT d.is_fully_allocated
		ORDER BY d.timestamp ASC, d.id ASC`

	rows, err := atx.tx.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing unallocated donations: %w", err)
	}
	defer rows.Close()

	var donations []*ledger.Donation

	for rows.Next() {
		d, err := ScanDonation(rows)
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

func (atx *allocationTx) CreateAllocations(ctx context.Context, allocs []*ledger.FundAllocation) error {
	query := `
		INSERT INTO fund_allocations (donation_id, expense_id, allocated_amount, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, external_id
	`

	for _, a := range allocs {
		err := atx.tx.QueryRowContext(ctx, query,
			a.DonationID,
			a.ExpenseID,
			a.AllocatedAmount,
			a.CreatedAt,
		).Scan(&a.ID, &a.ExternalID)
		if err != nil {
			return fmt.Errorf("creating allocation: %w", classify(err))
		}
	}

	return nil
}

func (atx *allocationTx) UpdateDonationBookkeeping(ctx context.Context, d *ledger.Donation) error {
	query := `
		UPDATE donations
		SET is_fully_allocated = $1, is_credited = $2
		WHERE id = $3
	`

	if _, err := atx.tx.ExecContext(ctx, query, d.IsFullyAllocated, d.Credited, d.ID); err != nil {
		return fmt.Errorf("updating donation bookkeeping: %w", classify(err))
	}

	return nil
}

func (atx *allocationTx) UpdateCampaignBalances(ctx context.Context, c *ledger.Campaign) error {
	query := `
		UPDATE campaigns
		SET total_donated = $1, unallocated_amount = $2, updated_at = NOW()
		WHERE id = $3
	`

	if _, err := atx.tx.ExecContext(ctx, query, c.TotalDonated, c.UnallocatedAmount, c.ID); err != nil {
		return fmt.Errorf("updating campaign balances: %w", classify(err))
	}

	return nil
}

func (atx *allocationTx) LedgerTotals(ctx context.Context, campaignID int64) (*ledger.Totals, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(d.amount) FROM donations d
				WHERE d.campaign_id = $1 AND d.status = 'success' AND d.is_credited), 0),
			COALESCE((SELECT SUM(fa.allocated_amount) FROM fund_allocations fa
				JOIN donations d ON d.id = fa.donation_id
				WHERE d.campaign_id = $1), 0),
			COALESCE((SELECT SUM(w.amount) FROM fund_withdrawal_requests w
				WHERE w.campaign_id = $1 AND w.status = 'approved'), 0)
	`

	var t ledger.Totals
	if err := atx.tx.QueryRowContext(ctx, query, campaignID).Scan(&t.Donated, &t.Allocated, &t.Withdrawn); err != nil {
		return nil, fmt.Errorf("computing ledger totals: %w", err)
	}

	return &t, nil
}
