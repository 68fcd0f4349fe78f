package donation

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/donation"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

type donationResponse struct {
	ID               uuid.UUID             `json:"id"`
	Amount           money.Money           `json:"amount"`
	Status           ledger.DonationStatus `json:"status"`
	Timestamp        time.Time             `json:"timestamp"`
	DonorID          *string               `json:"donor_id,omitempty"`
	Allocated        money.Money           `json:"allocated"`
	Remaining        money.Money           `json:"remaining"`
	IsFullyAllocated bool                  `json:"is_fully_allocated"`
}

type confirmResponse struct {
	Donation    donationResponse `json:"donation"`
	Allocations int              `json:"allocations"`
	Allocated   money.Money      `json:"allocated_now"`
	Duplicate   bool             `json:"duplicate"`
}

func toResponse(d *ledger.Donation) donationResponse {
	return donationResponse{
		ID:               d.ExternalID,
		Amount:           d.Amount,
		Status:           d.Status,
		Timestamp:        d.Timestamp,
		DonorID:          d.DonorID,
		Allocated:        d.Allocated,
		Remaining:        d.Remaining(),
		IsFullyAllocated: d.IsFullyAllocated,
	}
}

func toResponseList(ds []*ledger.Donation) []donationResponse {
	resp := make([]donationResponse, len(ds))
	for i, d := range ds {
		resp[i] = toResponse(d)
	}

	return resp
}

func toConfirmResponse(res *donation.ConfirmResult) confirmResponse {
	allocated := money.Zero
	for _, a := range res.Allocations {
		allocated = allocated.Add(a.AllocatedAmount)
	}

	return confirmResponse{
		Donation:    toResponse(res.Donation),
		Allocations: len(res.Allocations),
		Allocated:   allocated,
		Duplicate:   res.Duplicate,
	}
}
