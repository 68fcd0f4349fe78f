package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/money"
)

// Campaign is a fundraising effort owned by an organizer.
// TotalDonated and UnallocatedAmount are written only by the Engine and the
// withdrawal workflow; everything else treats them as read-only.
type Campaign struct {
	ID                int64
	ExternalID        uuid.UUID
	Title             string
	Description       string
	OrganizerID       string
	GoalAmount        money.Money
	TotalDonated      money.Money
	UnallocatedAmount money.Money
	IsActive          bool
	Verified          bool
	Deleted           bool
	StartDate         time.Time
	EndDate           *time.Time
}

// Placement is an attribution channel (banner, poster, link) for a campaign.
type Placement struct {
	ID              int64
	ExternalID      uuid.UUID
	CampaignID      int64
	Name            string
	URL             string
	QRCodeURL       string
	DonationCardURL string
	CreatedBy       string
	CreatedAt       time.Time
	Deleted         bool
}

// DonationStatus is the payment status of a donation.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationSuccess   DonationStatus = "success"
	DonationFailed    DonationStatus = "failed"
	DonationCancelled DonationStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s DonationStatus) Valid() bool {
	switch s {
	case DonationPending, DonationSuccess, DonationFailed, DonationCancelled:
		return true
	}

	return false
}

// Final reports whether s is a terminal status.
func (s DonationStatus) Final() bool {
	return s == DonationSuccess || s == DonationFailed || s == DonationCancelled
}

// Donation is a contribution to a campaign.
type Donation struct {
	ID               int64
	ExternalID       uuid.UUID
	CampaignID       int64
	PlacementID      *int64
	DonorID          *string
	Amount           money.Money
	Timestamp        time.Time
	TransactionID    string
	Status           DonationStatus
	IsFullyAllocated bool
	// Credited is set once the amount has been added to the campaign totals.
	Credited bool
	// Allocated is the sum of the donation's fund allocations (derived).
	Allocated money.Money
}

// Remaining is the part of the donation not yet allocated to an expense.
func (d *Donation) Remaining() money.Money {
	return d.Amount.Sub(d.Allocated)
}

// Expense is a cost incurred against a campaign.
type Expense struct {
	ID          int64
	ExternalID  uuid.UUID
	CampaignID  int64
	Description string
	Amount      money.Money
	Timestamp   time.Time
	CreatedBy   string
	ReceiptURL  string
	Deleted     bool
	// Allocated is the sum of the expense's fund allocations (derived).
	Allocated money.Money
}

// Need is the part of the expense not yet covered by donations.
func (e *Expense) Need() money.Money {
	return e.Amount.Sub(e.Allocated)
}

// FundAllocation records part of one donation paying for part of one expense.
// Allocations are immutable once created.
type FundAllocation struct {
	ID              int64
	ExternalID      uuid.UUID
	DonationID      int64
	ExpenseID       int64
	AllocatedAmount money.Money
	CreatedAt       time.Time
}

// Trigger names the event that started an allocation pass.
type Trigger string

const (
	TriggerDonation Trigger = "donation"
	TriggerExpense  Trigger = "expense"
)
