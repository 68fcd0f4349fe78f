package withdrawal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

// Status is the review state of a withdrawal request.
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// ErrAlreadyReviewed is returned when approving or rejecting a request that
// already reached a terminal state.
var ErrAlreadyReviewed = fmt.Errorf("request already reviewed: %w", ledger.ErrInvalidState)

// Request is an organizer's request to disburse unallocated campaign funds.
type Request struct {
	ID          int64
	ExternalID  uuid.UUID
	CampaignID  int64
	Amount      money.Money
	Reason      string
	RequestedBy string
	Status      Status
	ReviewedBy  *string
	ReviewedAt  *time.Time
	ReviewNote  string
	CreatedAt   time.Time
}

// Approved reports whether the request was approved.
func (r *Request) Approved() bool {
	return r.Status == StatusApproved
}

// Reviewed reports whether the request reached a terminal state.
func (r *Request) Reviewed() bool {
	return r.Status != StatusRequested
}
