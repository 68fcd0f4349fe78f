package donation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/metrics"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

var (
	// ErrDuplicateTransaction is returned when a transaction id is already in use.
	ErrDuplicateTransaction = fmt.Errorf("duplicate transaction id: %w", ledger.ErrValidation)
	// ErrAmountMismatch is returned when a confirmation reports a different amount.
	ErrAmountMismatch = fmt.Errorf("amount mismatch: %w", ledger.ErrValidation)
	// ErrAlreadyConfirmed is returned when a donation already left pending with another status.
	ErrAlreadyConfirmed = fmt.Errorf("donation already confirmed: %w", ledger.ErrInvalidState)
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=donation
type Repository interface {
	// GetCampaignByExternalID ignores soft-deleted campaigns.
	GetCampaignByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Campaign, error)
	// GetPlacementByExternalID ignores soft-deleted placements.
	GetPlacementByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Placement, error)

	CreateDonation(ctx context.Context, d *ledger.Donation) error
	GetDonationByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Donation, error)
	GetDonationByTransactionID(ctx context.Context, transactionID string) (*ledger.Donation, error)
	ListDonations(ctx context.Context, filter ListFilter) ([]*ledger.Donation, error)

	// TransitionStatus moves a pending donation to status. It reports false,
	// without error, when the donation was no longer pending.
	TransitionStatus(ctx context.Context, id int64, status ledger.DonationStatus) (bool, error)
}

// Allocator credits a successful donation and spends it on expenses.
type Allocator interface {
	OnDonationSucceeded(ctx context.Context, donationID int64) ([]*ledger.FundAllocation, error)
}

type ListFilter struct {
	CampaignID *int64
	Status     *ledger.DonationStatus
	Credited   *bool
}

type Service struct {
	repo      Repository
	allocator Allocator
	now       func() time.Time
	attempts  int
	backoff   time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRetries sets how often an allocation pass is attempted on lock conflicts.
func WithRetries(attempts int, backoff time.Duration) Option {
	return func(s *Service) {
		s.attempts = attempts
		s.backoff = backoff
	}
}

func NewService(repo Repository, allocator Allocator, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		allocator: allocator,
		now:       time.Now,
		attempts:  1,
		backoff:   50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	CampaignID    uuid.UUID
	PlacementID   *uuid.UUID
	DonorID       *string
	Amount        money.Money
	TransactionID string
}

// Create records a pending donation at payment initiation. Its timestamp is
// fixed here and never changes.
func (s *Service) Create(ctx context.Context, params CreateParams) (*ledger.Donation, error) {
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ledger.ErrValidation)
	}

	txID := strings.TrimSpace(params.TransactionID)
	if txID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ledger.ErrValidation)
	}

	c, err := s.repo.GetCampaignByExternalID(ctx, params.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("getting campaign: %w", err)
	}

	if !c.IsActive {
		return nil, fmt.Errorf("%w: campaign is not accepting donations", ledger.ErrInvalidState)
	}

	d := &ledger.Donation{
		CampaignID:    c.ID,
		DonorID:       params.DonorID,
		Amount:        params.Amount,
		Timestamp:     s.now(),
		TransactionID: txID,
		Status:        ledger.DonationPending,
		Allocated:     money.Zero,
	}

	if params.PlacementID != nil {
		p, err := s.repo.GetPlacementByExternalID(ctx, *params.PlacementID)
		if err != nil {
			return nil, fmt.Errorf("getting placement: %w", err)
		}

		if p.CampaignID != c.ID {
			return nil, fmt.Errorf("%w: placement belongs to another campaign", ledger.ErrValidation)
		}

		d.PlacementID = &p.ID
	}

	if err := s.repo.CreateDonation(ctx, d); err != nil {
		return nil, err
	}

	slog.Info("donation created", "donation_id", d.ExternalID, "campaign_id", c.ExternalID, "amount", d.Amount.String())

	return d, nil
}

func (s *Service) Get(ctx context.Context, externalID uuid.UUID) (*ledger.Donation, error) {
	return s.repo.GetDonationByExternalID(ctx, externalID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*ledger.Donation, error) {
	return s.repo.ListDonations(ctx, filter)
}

type ConfirmParams struct {
	TransactionID string
	Status        ledger.DonationStatus
	// Amount, when set, must match the recorded donation amount.
	Amount *money.Money
}

// ConfirmResult describes what a confirmation did.
type ConfirmResult struct {
	Donation    *ledger.Donation
	Allocations []*ledger.FundAllocation
	// Duplicate is set when the donation already had the requested status.
	Duplicate bool
}

// Confirm applies a payment confirmation. A pending donation moves to its final
// status exactly once; repeating the same confirmation is harmless. A success
// credits the campaign and runs an allocation pass in the same call.
func (s *Service) Confirm(ctx context.Context, params ConfirmParams) (*ConfirmResult, error) {
	res, err := s.confirm(ctx, params)
	metrics.DonationConfirmations.WithLabelValues(string(params.Status), confirmOutcome(res, err)).Inc()

	return res, err
}

func (s *Service) confirm(ctx context.Context, params ConfirmParams) (*ConfirmResult, error) {
	if !params.Status.Final() {
		return nil, fmt.Errorf("%w: status must be success, failed or cancelled", ledger.ErrValidation)
	}

	d, err := s.repo.GetDonationByTransactionID(ctx, params.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("getting donation: %w", err)
	}

	if params.Amount != nil && !params.Amount.Equal(d.Amount) {
		return nil, fmt.Errorf("%w: reported %s, recorded %s", ErrAmountMismatch, params.Amount, d.Amount)
	}

	res := &ConfirmResult{Donation: d}
	transitioned := false

	if d.Status == ledger.DonationPending {
		moved, err := s.repo.TransitionStatus(ctx, d.ID, params.Status)
		if err != nil {
			return nil, fmt.Errorf("updating donation status: %w", err)
		}

		if !moved {
			// Lost a race with another confirmation.
			if d, err = s.repo.GetDonationByTransactionID(ctx, params.TransactionID); err != nil {
				return nil, fmt.Errorf("getting donation: %w", err)
			}

			res.Donation = d
		} else {
			d.Status = params.Status
			transitioned = true

			slog.Info("donation confirmed", "donation_id", d.ExternalID, "status", d.Status)
		}
	}

	if d.Status != params.Status {
		return nil, fmt.Errorf("%w: donation is %s", ErrAlreadyConfirmed, d.Status)
	}

	if d.Status != ledger.DonationSuccess {
		res.Duplicate = !transitioned
		return res, nil
	}

	// A success whose allocation pass failed earlier stays uncredited; it is
	// picked up again here.
	if d.Credited {
		res.Duplicate = true
		return res, nil
	}

	allocs, err := s.allocate(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	res.Allocations = allocs
	d.Credited = true

	return res, nil
}

func (s *Service) allocate(ctx context.Context, donationID int64) ([]*ledger.FundAllocation, error) {
	var allocs []*ledger.FundAllocation

	err := ledger.Retry(ctx, s.attempts, s.backoff, func(ctx context.Context) error {
		var err error

		allocs, err = s.allocator.OnDonationSucceeded(ctx, donationID)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("allocating donation %d: %w", donationID, err)
	}

	return allocs, nil
}

func confirmOutcome(res *ConfirmResult, err error) string {
	switch {
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, ledger.ErrInvalidState), errors.Is(err, ledger.ErrNotFound):
		return "rejected"
	case err != nil:
		return "error"
	case res.Duplicate:
		return "duplicate"
	}

	return "applied"
}

// CreditPending runs allocation passes for successful donations that were
// never credited, e.g. after a crash between status update and allocation.
// It returns how many donations were credited.
func (s *Service) CreditPending(ctx context.Context) (int, error) {
	donations, err := s.repo.ListDonations(ctx, ListFilter{
		Status:   new(ledger.DonationSuccess),
		Credited: new(false),
	})
	if err != nil {
		return 0, fmt.Errorf("listing uncredited donations: %w", err)
	}

	credited := 0

	for _, d := range donations {
		if _, err := s.allocate(ctx, d.ID); err != nil {
			return credited, err
		}

		credited++
	}

	if credited > 0 {
		slog.Info("credited pending donations", "count", credited)
	}

	return credited, nil
}
