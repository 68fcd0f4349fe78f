package campaign

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

type campaignResponse struct {
	ID                uuid.UUID   `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	OrganizerID       string      `json:"organizer_id"`
	GoalAmount        money.Money `json:"goal_amount"`
	TotalDonated      money.Money `json:"total_donated"`
	UnallocatedAmount money.Money `json:"unallocated_amount"`
	IsActive          bool        `json:"is_active"`
	Verified          bool        `json:"verified"`
	StartDate         time.Time   `json:"start_date"`
	EndDate           *time.Time  `json:"end_date,omitempty"`
}

type placementResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	QRCodeURL       string    `json:"qr_code_url,omitempty"`
	DonationCardURL string    `json:"donation_card_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// toResponse renders the public view of a campaign.
func toResponse(c *ledger.Campaign) campaignResponse {
	return campaignResponse{
		ID:                c.ExternalID,
		Title:             c.Title,
		Description:       c.Description,
		OrganizerID:       c.OrganizerID,
		GoalAmount:        c.GoalAmount,
		TotalDonated:      c.TotalDonated,
		UnallocatedAmount: c.UnallocatedAmount,
		IsActive:          c.IsActive,
		Verified:          c.Verified,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
	}
}

func toResponseList(cs []*ledger.Campaign) []campaignResponse {
	resp := make([]campaignResponse, len(cs))
	for i, c := range cs {
		resp[i] = toResponse(c)
	}

	return resp
}

func toPlacementResponse(p *ledger.Placement) placementResponse {
	return placementResponse{
		ID:              p.ExternalID,
		Name:            p.Name,
		URL:             p.URL,
		QRCodeURL:       p.QRCodeURL,
		DonationCardURL: p.DonationCardURL,
		CreatedAt:       p.CreatedAt,
	}
}

func toPlacementResponseList(ps []*ledger.Placement) []placementResponse {
	resp := make([]placementResponse, len(ps))
	for i, p := range ps {
		resp[i] = toPlacementResponse(p)
	}

	return resp
}
