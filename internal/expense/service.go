package expense

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
	"github.com/MrJamesThe3rd/fundly/internal/storage"
)

// MaxReceiptSize is the largest receipt upload accepted, in bytes.
const MaxReceiptSize = 10 << 20

var receiptTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	GetCampaign(ctx context.Context, id int64) (*ledger.Campaign, error)
	// GetCampaignByExternalID ignores soft-deleted campaigns.
	GetCampaignByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Campaign, error)

	CreateExpense(ctx context.Context, e *ledger.Expense) error
	// GetExpenseByExternalID ignores soft-deleted expenses.
	GetExpenseByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Expense, error)
	ListExpenses(ctx context.Context, filter ListFilter) ([]*ledger.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	SetReceiptURL(ctx context.Context, id int64, url string) error
}

// Allocator covers a new expense from unallocated donations.
type Allocator interface {
	OnExpenseCreated(ctx context.Context, expenseID int64) ([]*ledger.FundAllocation, error)
}

type ListFilter struct {
	CampaignID *int64
	// Underfunded keeps only expenses whose allocations do not cover them yet.
	Underfunded bool
}

type Service struct {
	repo      Repository
	allocator Allocator
	store     storage.Store
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

func NewService(repo Repository, allocator Allocator, store storage.Store, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		allocator: allocator,
		store:     store,
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
	CampaignID  uuid.UUID
	CreatedBy   string
	Description string
	Amount      money.Money
	ReceiptURL  string
}

// Create records an expense and immediately covers it from unallocated
// donations, oldest first.
//
// The expense row is committed before the allocation pass. If the pass fails,
// Create returns the recorded expense together with the error; CoverPending
// or a later donation picks it up.
func (s *Service) Create(ctx context.Context, params CreateParams) (*ledger.Expense, []*ledger.FundAllocation, error) {
	desc := strings.TrimSpace(params.Description)
	if desc == "" {
		return nil, nil, fmt.Errorf("%w: description is required", ledger.ErrValidation)
	}

	if !params.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: amount must be positive", ledger.ErrValidation)
	}

	// Receipts are bundled from storage, so only URLs it handed out are kept.
	if params.ReceiptURL != "" {
		if _, ok := s.store.Key(params.ReceiptURL); !ok {
			return nil, nil, fmt.Errorf("%w: receipt_url must point to an uploaded receipt", ledger.ErrValidation)
		}
	}

	c, err := s.repo.GetCampaignByExternalID(ctx, params.CampaignID)
	if err != nil {
		return nil, nil, fmt.Errorf("getting campaign: %w", err)
	}

	if c.OrganizerID != params.CreatedBy {
		return nil, nil, fmt.Errorf("%w: only the organizer may record expenses", ledger.ErrForbidden)
	}

	e := &ledger.Expense{
		CampaignID:  c.ID,
		Description: desc,
		Amount:      params.Amount,
		Timestamp:   s.now(),
		CreatedBy:   params.CreatedBy,
		ReceiptURL:  params.ReceiptURL,
		Allocated:   money.Zero,
	}

	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, nil, err
	}

	slog.Info("expense created", "expense_id", e.ExternalID, "campaign_id", c.ExternalID, "amount", e.Amount.String())

	allocs, err := s.cover(ctx, e.ID)
	if err != nil {
		return e, nil, err
	}

	for _, a := range allocs {
		e.Allocated = e.Allocated.Add(a.AllocatedAmount)
	}

	return e, allocs, nil
}

func (s *Service) cover(ctx context.Context, expenseID int64) ([]*ledger.FundAllocation, error) {
	var allocs []*ledger.FundAllocation

	err := ledger.Retry(ctx, s.attempts, s.backoff, func(ctx context.Context) error {
		var err error

		allocs, err = s.allocator.OnExpenseCreated(ctx, expenseID)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("allocating expense %d: %w", expenseID, err)
	}

	return allocs, nil
}

// ownedExpense loads a live expense whose campaign the caller organizes.
func (s *Service) ownedExpense(ctx context.Context, externalID uuid.UUID, callerID string) (*ledger.Expense, error) {
	e, err := s.repo.GetExpenseByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetCampaign(ctx, e.CampaignID)
	if err != nil {
		return nil, err
	}

	if c.OrganizerID != callerID {
		return nil, fmt.Errorf("%w: not the campaign organizer", ledger.ErrForbidden)
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, externalID uuid.UUID) (*ledger.Expense, error) {
	return s.repo.GetExpenseByExternalID(ctx, externalID)
}

// List returns the campaign's live expenses, oldest first.
func (s *Service) List(ctx context.Context, campaignID int64) ([]*ledger.Expense, error) {
	return s.repo.ListExpenses(ctx, ListFilter{CampaignID: &campaignID})
}

// Delete soft-deletes an expense. Its existing allocations stay; it just stops
// receiving new ones.
func (s *Service) Delete(ctx context.Context, externalID uuid.UUID, callerID string) error {
	e, err := s.ownedExpense(ctx, externalID, callerID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteExpense(ctx, e.ID); err != nil {
		return err
	}

	slog.Info("expense deleted", "expense_id", e.ExternalID, "allocated", e.Allocated.String())

	return nil
}

// AttachReceipt stores an uploaded receipt and links it to the expense.
func (s *Service) AttachReceipt(ctx context.Context, externalID uuid.UUID, callerID, contentType string, body []byte) (*ledger.Expense, error) {
	ext, ok := receiptTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported receipt type %q", ledger.ErrValidation, contentType)
	}

	if len(body) == 0 || len(body) > MaxReceiptSize {
		return nil, fmt.Errorf("%w: receipt must be between 1 byte and %d bytes", ledger.ErrValidation, MaxReceiptSize)
	}

	e, err := s.ownedExpense(ctx, externalID, callerID)
	if err != nil {
		return nil, err
	}

	key := path.Join("receipts", e.ExternalID.String(), uuid.NewString()+ext)

	url, err := s.store.Put(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("storing receipt: %w", err)
	}

	if err := s.repo.SetReceiptURL(ctx, e.ID, url); err != nil {
		return nil, err
	}

	e.ReceiptURL = url

	return e, nil
}

// CoverPending re-runs allocation for every live underfunded expense. Passes
// that find nothing to allocate are no-ops. It returns how many allocations
// were created.
func (s *Service) CoverPending(ctx context.Context) (int, error) {
	expenses, err := s.repo.ListExpenses(ctx, ListFilter{Underfunded: true})
	if err != nil {
		return 0, fmt.Errorf("listing underfunded expenses: %w", err)
	}

	created := 0

	for _, e := range expenses {
		allocs, err := s.cover(ctx, e.ID)
		if err != nil {
			return created, err
		}

		created += len(allocs)
	}

	if created > 0 {
		slog.Info("covered pending expenses", "allocations", created)
	}

	return created, nil
}
