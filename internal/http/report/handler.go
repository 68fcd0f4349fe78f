package report

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/donation"
	"github.com/MrJamesThe3rd/fundly/internal/expense"
	"github.com/MrJamesThe3rd/fundly/internal/http/httpx"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
	"github.com/MrJamesThe3rd/fundly/internal/report"
)

// Handler serves the public transparency views: campaign reports and
// allocation history.
type Handler struct {
	svc       *report.Service
	donations *donation.Service
	expenses  *expense.Service
}

func NewHandler(svc *report.Service, donations *donation.Service, expenses *expense.Service) *Handler {
	return &Handler{svc: svc, donations: donations, expenses: expenses}
}

func (h *Handler) CampaignRoutes(r chi.Router) {
	r.Get("/{id}/report", h.report)
	r.Get("/{id}/allocations", h.campaignAllocations)
}

func (h *Handler) DonationRoutes(r chi.Router) {
	r.Get("/{id}/allocations", h.donationAllocations)
}

func (h *Handler) ExpenseRoutes(r chi.Router) {
	r.Get("/{id}/allocations", h.expenseAllocations)
}

type allocationResponse struct {
	ID                 uuid.UUID   `json:"id"`
	Amount             money.Money `json:"amount"`
	CreatedAt          time.Time   `json:"created_at"`
	DonationID         uuid.UUID   `json:"donation_id"`
	DonationTimestamp  time.Time   `json:"donation_timestamp"`
	Placement          string      `json:"placement,omitempty"`
	ExpenseID          uuid.UUID   `json:"expense_id"`
	ExpenseDescription string      `json:"expense_description"`
	ExpenseDeleted     bool        `json:"expense_deleted"`
}

func toAllocationResponseList(lines []report.Line) []allocationResponse {
	resp := make([]allocationResponse, len(lines))
	for i, l := range lines {
		resp[i] = allocationResponse{
			ID:                 l.AllocationID,
			Amount:             l.Amount,
			CreatedAt:          l.AllocatedAt,
			DonationID:         l.DonationID,
			DonationTimestamp:  l.DonationTimestamp,
			Placement:          l.PlacementName,
			ExpenseID:          l.ExpenseID,
			ExpenseDescription: l.ExpenseDesc,
			ExpenseDeleted:     l.ExpenseDeleted,
		}
	}

	return resp
}

// report renders the campaign report as CSV (default) or, with
// ?format=text, as a plain text summary.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	rep, err := h.svc.Build(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=\"campaign_%s_%s.csv\"", id, rep.GeneratedAt.Format("20060102")))

		if err := rep.WriteCSV(w); err != nil {
			slog.Error("failed to write report", "campaign_id", id, "error", err)
		}
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if _, err := io.WriteString(w, rep.Summary()); err != nil {
			slog.Error("failed to write report", "campaign_id", id, "error", err)
		}
	default:
		httpx.Fail(w, r, fmt.Errorf("%w: unknown format %q", ledger.ErrValidation, format))
	}
}

func (h *Handler) campaignAllocations(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	lines, err := h.svc.CampaignHistory(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAllocationResponseList(lines))
}

func (h *Handler) donationAllocations(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	d, err := h.donations.Get(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	h.history(w, r, ledger.AllocationFilter{DonationID: &d.ID})
}

func (h *Handler) expenseAllocations(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	e, err := h.expenses.Get(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	h.history(w, r, ledger.AllocationFilter{ExpenseID: &e.ID})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request, filter ledger.AllocationFilter) {
	lines, err := h.svc.History(r.Context(), filter)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAllocationResponseList(lines))
}
