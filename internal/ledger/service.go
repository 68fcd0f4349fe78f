package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/fundly/internal/metrics"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetDonation(ctx context.Context, id int64) (*Donation, error)
	GetExpense(ctx context.Context, id int64) (*Expense, error)
	ListAllocations(ctx context.Context, filter AllocationFilter) ([]*FundAllocation, error)

	// BeginAllocation opens a transaction holding the campaign's exclusive
	// allocation lock. It fails with ErrConcurrencyConflict if the lock cannot
	// be taken in time.
	BeginAllocation(ctx context.Context, campaignID int64) (AllocationTx, error)
}

// AllocationTx is a unit of work serialized per campaign.
type AllocationTx interface {
	// LockCampaign loads the campaign row for update, including soft-deleted ones.
	LockCampaign(ctx context.Context, id int64) (*Campaign, error)
	GetDonation(ctx context.Context, id int64) (*Donation, error)
	GetExpense(ctx context.Context, id int64) (*Expense, error)

	// ListUnderfundedExpenses returns the campaign's non-deleted expenses whose
	// allocations do not yet cover their amount, oldest first.
	ListUnderfundedExpenses(ctx context.Context, campaignID int64) ([]*Expense, error)
	// ListUnallocatedDonations returns the campaign's credited successful
	// donations that are not fully allocated, oldest first.
	ListUnallocatedDonations(ctx context.Context, campaignID int64) ([]*Donation, error)

	CreateAllocations(ctx context.Context, allocs []*FundAllocation) error
	UpdateDonationBookkeeping(ctx context.Context, d *Donation) error
	UpdateCampaignBalances(ctx context.Context, c *Campaign) error

	LedgerTotals(ctx context.Context, campaignID int64) (*Totals, error)

	Commit() error
	Rollback() error
}

// AllocationFilter narrows an allocation history query. Nil fields are ignored.
type AllocationFilter struct {
	CampaignID *int64
	DonationID *int64
	ExpenseID  *int64
}

// Totals are the campaign figures recomputed from the ledger itself.
type Totals struct {
	Donated   money.Money
	Allocated money.Money
	Withdrawn money.Money
}

// Unallocated is what the cached unallocated amount should be.
func (t Totals) Unallocated() money.Money {
	return t.Donated.Sub(t.Allocated).Sub(t.Withdrawn)
}

// Engine maintains the FIFO donation-to-expense ledger of every campaign.
// It is the only writer of fund allocations.
type Engine struct {
	repo Repository
	now  func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now for allocation timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(repo Repository, opts ...Option) *Engine {
	e := &Engine{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// OnDonationSucceeded credits a successful donation to its campaign and spends
// it on the campaign's underfunded expenses, oldest first. Calling it again for
// the same donation only allocates whatever is still unallocated.
func (e *Engine) OnDonationSucceeded(ctx context.Context, donationID int64) ([]*FundAllocation, error) {
	d, err := e.repo.GetDonation(ctx, donationID)
	if err != nil {
		return nil, fmt.Errorf("getting donation: %w", err)
	}

	return e.runPass(ctx, TriggerDonation, d.CampaignID, func(ctx context.Context, tx AllocationTx, c *Campaign) ([]*FundAllocation, bool, error) {
		d, err := tx.GetDonation(ctx, donationID)
		if err != nil {
			return nil, false, fmt.Errorf("getting donation: %w", err)
		}

		if d.Status != DonationSuccess {
			return nil, false, fmt.Errorf("%w: donation %d is %s", ErrInvalidState, d.ID, d.Status)
		}

		if !d.Amount.IsPositive() {
			return nil, false, fmt.Errorf("%w: donation %d has non-positive amount", ErrValidation, d.ID)
		}

		changed := false

		if !d.Credited {
			c.TotalDonated = c.TotalDonated.Add(d.Amount)
			c.UnallocatedAmount = c.UnallocatedAmount.Add(d.Amount)
			d.Credited = true
			changed = true
		}

		var allocs []*FundAllocation

		if !d.IsFullyAllocated && d.Remaining().IsPositive() {
			expenses, err := tx.ListUnderfundedExpenses(ctx, c.ID)
			if err != nil {
				return nil, false, fmt.Errorf("listing underfunded expenses: %w", err)
			}

			allocs = allocateDonation(d, expenses, c.UnallocatedAmount, e.now())
		}

		if !d.IsFullyAllocated && !d.Remaining().IsPositive() {
			d.IsFullyAllocated = true
			changed = true
		}

		if changed || len(allocs) > 0 {
			if err := tx.UpdateDonationBookkeeping(ctx, d); err != nil {
				return nil, false, fmt.Errorf("updating donation: %w", err)
			}
		}

		return allocs, changed, nil
	})
}

// OnExpenseCreated covers a new expense from the campaign's unallocated
// successful donations, oldest first.
func (e *Engine) OnExpenseCreated(ctx context.Context, expenseID int64) ([]*FundAllocation, error) {
	ex, err := e.repo.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e.runPass(ctx, TriggerExpense, ex.CampaignID, func(ctx context.Context, tx AllocationTx, c *Campaign) ([]*FundAllocation, bool, error) {
		ex, err := tx.GetExpense(ctx, expenseID)
		if err != nil {
			return nil, false, fmt.Errorf("getting expense: %w", err)
		}

		if ex.Deleted {
			return nil, false, fmt.Errorf("%w: expense %d is deleted", ErrInvalidState, ex.ID)
		}

		if !ex.Amount.IsPositive() {
			return nil, false, fmt.Errorf("%w: expense %d has non-positive amount", ErrValidation, ex.ID)
		}

		if !ex.Need().IsPositive() {
			return nil, false, nil
		}

		donations, err := tx.ListUnallocatedDonations(ctx, c.ID)
		if err != nil {
			return nil, false, fmt.Errorf("listing unallocated donations: %w", err)
		}

		credited := donations[:0]
		for _, d := range donations {
			if d.Credited {
				credited = append(credited, d)
			}
		}

		allocs := allocateExpense(ex, credited, c.UnallocatedAmount, e.now())

		touched := make(map[int64]bool, len(allocs))
		for _, a := range allocs {
			touched[a.DonationID] = true
		}

		for _, d := range credited {
			if !touched[d.ID] {
				continue
			}

			if !d.Remaining().IsPositive() {
				d.IsFullyAllocated = true
			}

			if err := tx.UpdateDonationBookkeeping(ctx, d); err != nil {
				return nil, false, fmt.Errorf("updating donation: %w", err)
			}
		}

		return allocs, false, nil
	})
}

type passFunc func(ctx context.Context, tx AllocationTx, c *Campaign) (allocs []*FundAllocation, balancesChanged bool, err error)

// runPass executes fn under the campaign lock and commits the allocations it
// produced together with the balance update. Nothing is written on error.
func (e *Engine) runPass(ctx context.Context, trigger Trigger, campaignID int64, fn passFunc) (allocs []*FundAllocation, err error) {
	start := time.Now()

	defer func() {
		metrics.AllocationPassDuration.WithLabelValues(string(trigger)).Observe(time.Since(start).Seconds())
		metrics.AllocationPasses.WithLabelValues(string(trigger), passOutcome(allocs, err)).Inc()
	}()

	tx, err := e.repo.BeginAllocation(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("beginning allocation: %w", err)
	}
	defer tx.Rollback()

	c, err := tx.LockCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("locking campaign: %w", err)
	}

	allocs, changed, err := fn(ctx, tx, c)
	if err != nil {
		return nil, err
	}

	total := totalAllocated(allocs)

	if len(allocs) > 0 {
		if err := tx.CreateAllocations(ctx, allocs); err != nil {
			return nil, fmt.Errorf("creating allocations: %w", err)
		}

		c.UnallocatedAmount = c.UnallocatedAmount.Sub(total)
		changed = true
	}

	if c.UnallocatedAmount.IsNegative() {
		return nil, fmt.Errorf("%w: campaign %d would go negative", ErrInsufficientFunds, c.ID)
	}

	if changed {
		if err := tx.UpdateCampaignBalances(ctx, c); err != nil {
			return nil, fmt.Errorf("updating campaign balances: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing allocation: %w", err)
	}

	if len(allocs) == 0 {
		slog.Debug("allocation pass made no allocations", "campaign_id", campaignID, "trigger", trigger)
		return nil, nil
	}

	metrics.AllocationsCreated.WithLabelValues(string(trigger)).Add(float64(len(allocs)))
	metrics.AllocatedAmount.Add(total.Float64())

	slog.Info("allocation pass committed",
		"campaign_id", campaignID,
		"trigger", trigger,
		"allocations", len(allocs),
		"amount", total.String(),
		"unallocated", c.UnallocatedAmount.String(),
	)

	return allocs, nil
}

func passOutcome(allocs []*FundAllocation, err error) string {
	switch {
	case errors.Is(err, ErrConcurrencyConflict):
		return "conflict"
	case err != nil:
		return "error"
	case len(allocs) == 0:
		return "noop"
	}

	return "ok"
}

// Allocations lists allocation history.
func (e *Engine) Allocations(ctx context.Context, filter AllocationFilter) ([]*FundAllocation, error) {
	return e.repo.ListAllocations(ctx, filter)
}

// ReconcileReport compares the cached campaign balances with the ledger.
type ReconcileReport struct {
	CampaignID        int64
	CachedDonated     money.Money
	CachedUnallocated money.Money
	Totals            Totals
	Drift             bool
	Repaired          bool
}

// Reconcile recomputes total_donated and unallocated_amount from the ledger.
// With repair set, drifted cached values are overwritten.
func (e *Engine) Reconcile(ctx context.Context, campaignID int64, repair bool) (*ReconcileReport, error) {
	tx, err := e.repo.BeginAllocation(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("beginning reconcile: %w", err)
	}
	defer tx.Rollback()

	c, err := tx.LockCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("locking campaign: %w", err)
	}

	totals, err := tx.LedgerTotals(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("computing ledger totals: %w", err)
	}

	report := &ReconcileReport{
		CampaignID:        c.ID,
		CachedDonated:     c.TotalDonated,
		CachedUnallocated: c.UnallocatedAmount,
		Totals:            *totals,
	}

	report.Drift = !c.TotalDonated.Equal(totals.Donated) || !c.UnallocatedAmount.Equal(totals.Unallocated())
	if !report.Drift || !repair {
		return report, nil
	}

	slog.Warn("repairing campaign balances",
		"campaign_id", c.ID,
		"cached_donated", c.TotalDonated.String(),
		"cached_unallocated", c.UnallocatedAmount.String(),
		"donated", totals.Donated.String(),
		"unallocated", totals.Unallocated().String(),
	)

	c.TotalDonated = totals.Donated
	c.UnallocatedAmount = totals.Unallocated()

	if err := tx.UpdateCampaignBalances(ctx, c); err != nil {
		return nil, fmt.Errorf("updating campaign balances: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reconcile: %w", err)
	}

	report.Repaired = true

	return report, nil
}
