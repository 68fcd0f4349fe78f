package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/metrics"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=withdrawal
type Repository interface {
	GetCampaign(ctx context.Context, id int64) (*ledger.Campaign, error)
	CreateRequest(ctx context.Context, r *Request) error
	GetRequest(ctx context.Context, externalID uuid.UUID) (*Request, error)
	ListRequests(ctx context.Context, filter ListFilter) ([]*Request, error)

	// BeginReview opens a transaction holding the campaign's balance lock,
	// the same lock allocation passes take.
	BeginReview(ctx context.Context, campaignID int64) (ReviewTx, error)
}

type ReviewTx interface {
	LockCampaign(ctx context.Context, id int64) (*ledger.Campaign, error)
	LockRequest(ctx context.Context, id int64) (*Request, error)
	UpdateReview(ctx context.Context, r *Request) error
	UpdateUnallocated(ctx context.Context, c *ledger.Campaign) error
	Commit() error
	Rollback() error
}

type ListFilter struct {
	CampaignID *int64
	Status     *Status
}

type Service struct {
	repo     Repository
	now      func() time.Time
	attempts int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRetries sets how many times a review is attempted on lock conflicts.
func WithRetries(attempts int) Option {
	return func(s *Service) { s.attempts = attempts }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, attempts: 1}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	CampaignID  int64
	RequestedBy string
	Amount      money.Money
	Reason      string
}

// Create files a withdrawal request. Only the campaign organizer may ask, and
// funds are checked at approval time, not here.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Request, error) {
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ledger.ErrValidation)
	}

	if params.RequestedBy == "" {
		return nil, fmt.Errorf("%w: requester is required", ledger.ErrValidation)
	}

	c, err := s.repo.GetCampaign(ctx, params.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("getting campaign: %w", err)
	}

	if c.Deleted {
		return nil, fmt.Errorf("campaign %d: %w", c.ID, ledger.ErrNotFound)
	}

	if c.OrganizerID != params.RequestedBy {
		return nil, fmt.Errorf("%w: only the organizer may request a withdrawal", ledger.ErrForbidden)
	}

	r := &Request{
		CampaignID:  c.ID,
		Amount:      params.Amount,
		Reason:      params.Reason,
		RequestedBy: params.RequestedBy,
		Status:      StatusRequested,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateRequest(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, externalID uuid.UUID) (*Request, error) {
	return s.repo.GetRequest(ctx, externalID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Request, error) {
	return s.repo.ListRequests(ctx, filter)
}

// ListPending returns every request still awaiting review, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]*Request, error) {
	return s.repo.ListRequests(ctx, ListFilter{Status: new(StatusRequested)})
}

// Approve marks the request approved and takes its amount out of the
// campaign's unallocated funds.
func (s *Service) Approve(ctx context.Context, externalID uuid.UUID, reviewer, note string) (*Request, error) {
	r, err := s.review(ctx, externalID, reviewer, note, StatusApproved)
	metrics.WithdrawalReviews.WithLabelValues(reviewOutcome(StatusApproved, err)).Inc()

	return r, err
}

// Reject closes the request without moving any funds.
func (s *Service) Reject(ctx context.Context, externalID uuid.UUID, reviewer, note string) (*Request, error) {
	r, err := s.review(ctx, externalID, reviewer, note, StatusRejected)
	metrics.WithdrawalReviews.WithLabelValues(reviewOutcome(StatusRejected, err)).Inc()

	return r, err
}

func (s *Service) review(ctx context.Context, externalID uuid.UUID, reviewer, note string, to Status) (*Request, error) {
	if reviewer == "" {
		return nil, fmt.Errorf("%w: reviewer is required", ledger.ErrValidation)
	}

	r, err := s.repo.GetRequest(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}

	var reviewed *Request

	err = ledger.Retry(ctx, s.attempts, 50*time.Millisecond, func(ctx context.Context) error {
		reviewed, err = s.reviewOnce(ctx, r.CampaignID, r.ID, reviewer, note, to)
		return err
	})
	if err != nil {
		return nil, err
	}

	return reviewed, nil
}

func (s *Service) reviewOnce(ctx context.Context, campaignID, requestID int64, reviewer, note string, to Status) (*Request, error) {
	tx, err := s.repo.BeginReview(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("beginning review: %w", err)
	}
	defer tx.Rollback()

	c, err := tx.LockCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("locking campaign: %w", err)
	}

	r, err := tx.LockRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("locking request: %w", err)
	}

	if r.Reviewed() {
		return nil, ErrAlreadyReviewed
	}

	if to == StatusApproved {
		if r.Amount.GreaterThan(c.UnallocatedAmount) {
			return nil, fmt.Errorf("%w: requested %s, unallocated %s", ledger.ErrInsufficientFunds, r.Amount, c.UnallocatedAmount)
		}

		c.UnallocatedAmount = c.UnallocatedAmount.Sub(r.Amount)
		if err := tx.UpdateUnallocated(ctx, c); err != nil {
			return nil, fmt.Errorf("updating unallocated amount: %w", err)
		}
	}

	now := s.now()
	r.Status = to
	r.ReviewedBy = &reviewer
	r.ReviewedAt = &now
	r.ReviewNote = note

	if err := tx.UpdateReview(ctx, r); err != nil {
		return nil, fmt.Errorf("updating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing review: %w", err)
	}

	slog.Info("withdrawal request reviewed",
		"request_id", r.ExternalID,
		"campaign_id", c.ID,
		"status", r.Status,
		"amount", r.Amount.String(),
		"unallocated", c.UnallocatedAmount.String(),
	)

	return r, nil
}

func reviewOutcome(to Status, err error) string {
	switch {
	case err == nil:
		return string(to)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrAlreadyReviewed):
		return "already_reviewed"
	}

	return "error"
}
