package withdrawal

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/http/httpx"
	"github.com/MrJamesThe3rd/fundly/internal/money"
	"github.com/MrJamesThe3rd/fundly/internal/withdrawal"
)

type Handler struct {
	svc       *withdrawal.Service
	campaigns *campaign.Service
}

func NewHandler(svc *withdrawal.Service, campaigns *campaign.Service) *Handler {
	return &Handler{svc: svc, campaigns: campaigns}
}

func (h *Handler) CampaignRoutes(r chi.Router) {
	r.Post("/{id}/withdrawals", h.create)
	r.Get("/{id}/withdrawals", h.listByCampaign)
}

// AdminRoutes expect the caller's role to have been checked already.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/pending", h.listPending)
	r.Post("/{id}/approve", h.approve)
	r.Post("/{id}/reject", h.reject)
}

type withdrawalResponse struct {
	ID          uuid.UUID         `json:"id"`
	Amount      money.Money       `json:"amount"`
	Reason      string            `json:"reason"`
	RequestedBy string            `json:"requested_by"`
	Status      withdrawal.Status `json:"status"`
	ReviewedBy  *string           `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time        `json:"reviewed_at,omitempty"`
	ReviewNote  string            `json:"review_note,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func toResponse(req *withdrawal.Request) withdrawalResponse {
	return withdrawalResponse{
		ID:          req.ExternalID,
		Amount:      req.Amount,
		Reason:      req.Reason,
		RequestedBy: req.RequestedBy,
		Status:      req.Status,
		ReviewedBy:  req.ReviewedBy,
		ReviewedAt:  req.ReviewedAt,
		ReviewNote:  req.ReviewNote,
		CreatedAt:   req.CreatedAt,
	}
}

func toResponseList(reqs []*withdrawal.Request) []withdrawalResponse {
	resp := make([]withdrawalResponse, len(reqs))
	for i, req := range reqs {
		resp[i] = toResponse(req)
	}

	return resp
}

type createWithdrawalRequest struct {
	Amount money.Money `json:"amount"`
	Reason string      `json:"reason" validate:"max=1000"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	var req createWithdrawalRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	c, err := h.campaigns.Get(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	wr, err := h.svc.Create(r.Context(), withdrawal.CreateParams{
		CampaignID:  c.ID,
		RequestedBy: httpx.Caller(r),
		Amount:      req.Amount,
		Reason:      req.Reason,
	})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toResponse(wr))
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

	filter := withdrawal.ListFilter{CampaignID: &c.ID}
	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(withdrawal.Status(s))
	}

	reqs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(reqs))
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListPending(r.Context())
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(reqs))
}

type reviewRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Approve)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Reject)
}

type reviewFunc func(ctx context.Context, id uuid.UUID, reviewer, note string) (*withdrawal.Request, error)

func (h *Handler) review(w http.ResponseWriter, r *http.Request, fn reviewFunc) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	var req reviewRequest
	if r.ContentLength > 0 {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Fail(w, r, err)
			return
		}
	}

	wr, err := fn(r.Context(), id, httpx.Caller(r), req.Note)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(wr))
}
