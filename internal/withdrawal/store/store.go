package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/database"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	ledgerstore "github.com/MrJamesThe3rd/fundly/internal/ledger/store"
	"github.com/MrJamesThe3rd/fundly/internal/withdrawal"
)

type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func New(db *sql.DB, lockTimeout time.Duration) *Store {
	return &Store{db: db, lockTimeout: lockTimeout}
}

// Expected column order: id, external_id, campaign_id, amount, reason, requested_by,
// status, reviewed_by, reviewed_at, review_note, created_at
const selectRequestColumns = `
	w.id, w.external_id, w.campaign_id, w.amount, w.reason, w.requested_by,
	w.status, w.reviewed_by, w.reviewed_at, w.review_note, w.created_at
`

func scanRequest(s ledgerstore.Scanner) (*withdrawal.Request, error) {
	var r withdrawal.Request

	var status string

	if err := s.Scan(
		&r.ID, &r.ExternalID, &r.CampaignID, &r.Amount, &r.Reason, &r.RequestedBy,
		&status, &r.ReviewedBy, &r.ReviewedAt, &r.ReviewNote, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	r.Status = withdrawal.Status(status)

	return &r, nil
}

func conflict(err error) error {
	if database.IsRetryable(err) {
		return fmt.Errorf("%w: %w", ledger.ErrConcurrencyConflict, err)
	}

	return err
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*ledger.Campaign, error) {
	query := `SELECT ` + ledgerstore.CampaignColumns + ` FROM campaigns c WHERE c.id = $1`

	c, err := ledgerstore.ScanCampaign(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting campaign: %w", err)
	}

	return c, nil
}

func (s *Store) CreateRequest(ctx context.Context, r *withdrawal.Request) error {
	query := `
		INSERT INTO fund_withdrawal_requests (campaign_id, amount, reason, requested_by, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, external_id
	`

	err := s.db.QueryRowContext(ctx, query,
		r.CampaignID,
		r.Amount,
		r.Reason,
		r.RequestedBy,
		r.Status,
		r.CreatedAt,
	).Scan(&r.ID, &r.ExternalID)
	if err != nil {
		return fmt.Errorf("creating withdrawal request: %w", err)
	}

	return nil
}

func (s *Store) GetRequest(ctx context.Context, externalID uuid.UUID) (*withdrawal.Request, error) {
	query := `SELECT ` + selectRequestColumns + ` FROM fund_withdrawal_requests w WHERE w.external_id = $1`

	r, err := scanRequest(s.db.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting withdrawal request: %w", err)
	}

	return r, nil
}

func (s *Store) ListRequests(ctx context.Context, filter withdrawal.ListFilter) ([]*withdrawal.Request, error) {
	query := `SELECT ` + selectRequestColumns + ` FROM fund_withdrawal_requests w WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.CampaignID != nil {
		query += fmt.Sprintf(" AND w.campaign_id = $%d", argIdx)

		args = append(args, *filter.CampaignID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND w.status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY w.created_at ASC, w.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing withdrawal requests: %w", err)
	}
	defer rows.Close()

	var requests []*withdrawal.Request

	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning withdrawal request: %w", err)
		}

		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating withdrawal rows: %w", err)
	}

	return requests, nil
}

type reviewTx struct {
	tx *sql.Tx
}

func (s *Store) BeginReview(ctx context.Context, campaignID int64) (withdrawal.ReviewTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning review tx: %w", err)
	}

	if err := database.LockCampaign(ctx, dbTx, campaignID, s.lockTimeout); err != nil {
		dbTx.Rollback()
		return nil, conflict(err)
	}

	return &reviewTx{tx: dbTx}, nil
}

func (rtx *reviewTx) Commit() error   { return conflict(rtx.tx.Commit()) }
func (rtx *reviewTx) Rollback() error { return rtx.tx.Rollback() }

func (rtx *reviewTx) LockCampaign(ctx context.Context, id int64) (*ledger.Campaign, error) {
	query := `SELECT ` + ledgerstore.CampaignColumns + ` FROM campaigns c WHERE c.id = $1 FOR UPDATE`

	c, err := ledgerstore.ScanCampaign(rtx.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("locking campaign: %w", conflict(err))
	}

	return c, nil
}

func (rtx *reviewTx) LockRequest(ctx context.Context, id int64) (*withdrawal.Request, error) {
	query := `SELECT ` + selectRequestColumns + ` FROM fund_withdrawal_requests w WHERE w.id = $1 FOR UPDATE`

	r, err := scanRequest(rtx.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("locking withdrawal request: %w", conflict(err))
	}

	return r, nil
}

func (rtx *reviewTx) UpdateReview(ctx context.Context, r *withdrawal.Request) error {
	query := `
		UPDATE fund_withdrawal_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_note = $4
		WHERE id = $5 AND status = 'requested'
	`

	res, err := rtx.tx.ExecContext(ctx, query, r.Status, r.ReviewedBy, r.ReviewedAt, r.ReviewNote, r.ID)
	if err != nil {
		return fmt.Errorf("updating withdrawal review: %w", conflict(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking withdrawal review: %w", err)
	}

	if n == 0 {
		return withdrawal.ErrAlreadyReviewed
	}

	return nil
}

func (rtx *reviewTx) UpdateUnallocated(ctx context.Context, c *ledger.Campaign) error {
	query := `
		UPDATE campaigns
		SET unallocated_amount = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := rtx.tx.ExecContext(ctx, query, c.UnallocatedAmount, c.ID); err != nil {
		return fmt.Errorf("updating unallocated amount: %w", conflict(err))
	}

	return nil
}
