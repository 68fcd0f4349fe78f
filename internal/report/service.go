package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	GetCampaignByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Campaign, error)
	// ListAllocationLines returns allocations joined with their donation and
	// expense, in allocation order.
	ListAllocationLines(ctx context.Context, filter ledger.AllocationFilter) ([]Line, error)
	// ListExpenseLines includes soft-deleted expenses; their allocations stay on record.
	ListExpenseLines(ctx context.Context, campaignID int64) ([]ExpenseLine, error)
	ApprovedWithdrawals(ctx context.Context, campaignID int64) (money.Money, error)
}

// Line is one allocation with the donation and expense it links.
type Line struct {
	AllocationID      uuid.UUID
	AllocatedAt       time.Time
	Amount            money.Money
	DonationID        uuid.UUID
	DonationTimestamp time.Time
	DonorID           *string
	// PlacementName is empty for donations without a placement. Donations made
	// through a since deleted placement keep its name.
	PlacementName  string
	ExpenseID      uuid.UUID
	ExpenseDesc    string
	ExpenseDeleted bool
}

type ExpenseLine struct {
	ExpenseID   uuid.UUID
	Timestamp   time.Time
	Description string
	Amount      money.Money
	Allocated   money.Money
	ReceiptURL  string
	Deleted     bool
}

// Report is a campaign transparency report.
type Report struct {
	Campaign    *ledger.Campaign
	Allocations []Line
	Expenses    []ExpenseLine
	Withdrawn   money.Money
	GeneratedAt time.Time
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Build collects everything a campaign report shows. Reports are public, like
// the campaign itself.
func (s *Service) Build(ctx context.Context, campaignID uuid.UUID) (*Report, error) {
	c, err := s.repo.GetCampaignByExternalID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("getting campaign: %w", err)
	}

	lines, err := s.repo.ListAllocationLines(ctx, ledger.AllocationFilter{CampaignID: &c.ID})
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}

	expenses, err := s.repo.ListExpenseLines(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	withdrawn, err := s.repo.ApprovedWithdrawals(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("summing withdrawals: %w", err)
	}

	return &Report{
		Campaign:    c,
		Allocations: lines,
		Expenses:    expenses,
		Withdrawn:   withdrawn,
		GeneratedAt: s.now(),
	}, nil
}

// History lists allocations with public identifiers, narrowed by filter.
func (s *Service) History(ctx context.Context, filter ledger.AllocationFilter) ([]Line, error) {
	return s.repo.ListAllocationLines(ctx, filter)
}

// CampaignHistory lists every allocation of a live campaign.
func (s *Service) CampaignHistory(ctx context.Context, campaignID uuid.UUID) ([]Line, error) {
	c, err := s.repo.GetCampaignByExternalID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("getting campaign: %w", err)
	}

	return s.History(ctx, ledger.AllocationFilter{CampaignID: &c.ID})
}

var csvHeader = []string{
	"allocation_id", "allocated_at", "amount",
	"donation_id", "donation_timestamp", "donor", "placement",
	"expense_id", "expense_description", "expense_deleted",
}

// WriteCSV writes one row per allocation.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, l := range r.Allocations {
		donor := "anonymous"
		if l.DonorID != nil {
			donor = *l.DonorID
		}

		record := []string{
			l.AllocationID.String(),
			l.AllocatedAt.UTC().Format(time.RFC3339),
			l.Amount.String(),
			l.DonationID.String(),
			l.DonationTimestamp.UTC().Format(time.RFC3339),
			donor,
			l.PlacementName,
			l.ExpenseID.String(),
			l.ExpenseDesc,
			fmt.Sprint(l.ExpenseDeleted),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing allocation %s: %w", l.AllocationID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders a plain text overview of the campaign's funds.
func (r *Report) Summary() string {
	var sb strings.Builder

	c := r.Campaign

	allocated := money.Zero
	for _, l := range r.Allocations {
		allocated = allocated.Add(l.Amount)
	}

	fmt.Fprintf(&sb, "%s\n", c.Title)
	fmt.Fprintf(&sb, "Generated %s\n\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&sb, "Goal:         %12s\n", c.GoalAmount)
	fmt.Fprintf(&sb, "Donated:      %12s\n", c.TotalDonated)
	fmt.Fprintf(&sb, "Spent:        %12s\n", allocated)
	fmt.Fprintf(&sb, "Withdrawn:    %12s\n", r.Withdrawn)
	fmt.Fprintf(&sb, "Unallocated:  %12s\n", c.UnallocatedAmount)

	if len(r.Expenses) == 0 {
		return sb.String()
	}

	sb.WriteString("\nExpenses\n")

	for _, e := range r.Expenses {
		status := "covered"

		switch {
		case e.Deleted:
			status = "deleted"
		case e.Allocated.IsZero():
			status = "unfunded"
		case e.Allocated.LessThan(e.Amount):
			status = "partial"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s / %s | %s\n",
			e.Timestamp.UTC().Format("2006-01-02"), e.Description, e.Allocated, e.Amount, status)
	}

	return sb.String()
}
