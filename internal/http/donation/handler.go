package donation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/donation"
	"github.com/MrJamesThe3rd/fundly/internal/http/httpx"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

// SignatureHeader carries the payment provider's shared secret.
const SignatureHeader = "X-Payment-Signature"

type Handler struct {
	svc       *donation.Service
	campaigns *campaign.Service
}

func NewHandler(svc *donation.Service, campaigns *campaign.Service) *Handler {
	return &Handler{svc: svc, campaigns: campaigns}
}

// Routes serve donors, signed in or not.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
}

// CampaignRoutes list a campaign's donations for its organizer.
func (h *Handler) CampaignRoutes(r chi.Router) {
	r.Get("/{id}/donations", h.listByCampaign)
}

// WebhookRoutes receive payment confirmations. Mount them behind
// httpx.RequireSecret.
func (h *Handler) WebhookRoutes(r chi.Router) {
	r.Post("/", h.confirm)
}

type createDonationRequest struct {
	CampaignID    uuid.UUID   `json:"campaign_id"`
	PlacementID   *uuid.UUID  `json:"placement_id,omitempty"`
	Amount        money.Money `json:"amount"`
	TransactionID string      `json:"transaction_id" validate:"required,max=128"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDonationRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	params := donation.CreateParams{
		CampaignID:    req.CampaignID,
		PlacementID:   req.PlacementID,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
	}

	if caller := httpx.Caller(r); caller != "" {
		params.DonorID = &caller
	}

	d, err := h.svc.Create(r.Context(), params)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) listByCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	c, err := h.campaigns.GetOwned(r.Context(), id, httpx.Caller(r))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	filter := donation.ListFilter{CampaignID: &c.ID}

	if s := r.URL.Query().Get("status"); s != "" {
		status := ledger.DonationStatus(s)
		if !status.Valid() {
			httpx.WriteError(w, http.StatusBadRequest, "validation", "unknown status")
			return
		}

		filter.Status = &status
	}

	ds, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(ds))
}

type confirmRequest struct {
	TransactionID string                `json:"transaction_id" validate:"required,max=128"`
	Status        ledger.DonationStatus `json:"status" validate:"required,oneof=success failed cancelled"`
	Amount        *money.Money          `json:"amount,omitempty"`
}

// confirm applies a payment status callback. Replays of an already applied
// confirmation answer 200 with duplicate set, so providers stop retrying.
func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	res, err := h.svc.Confirm(r.Context(), donation.ConfirmParams{
		TransactionID: req.TransactionID,
		Status:        req.Status,
		Amount:        req.Amount,
	})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toConfirmResponse(res))
}
