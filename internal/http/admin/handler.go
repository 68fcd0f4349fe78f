package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/donation"
	"github.com/MrJamesThe3rd/fundly/internal/expense"
	"github.com/MrJamesThe3rd/fundly/internal/http/httpx"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
	"github.com/MrJamesThe3rd/fundly/internal/settlement"
)

// MaxSettlementSize bounds an uploaded settlement report.
const MaxSettlementSize = 10 << 20

// Handler serves operator endpoints. Every route expects the admin role to
// have been checked already.
type Handler struct {
	engine      *ledger.Engine
	campaigns   *campaign.Service
	donations   *donation.Service
	expenses    *expense.Service
	settlements *settlement.Service
}

func NewHandler(
	engine *ledger.Engine,
	campaigns *campaign.Service,
	donations *donation.Service,
	expenses *expense.Service,
	settlements *settlement.Service,
) *Handler {
	return &Handler{
		engine:      engine,
		campaigns:   campaigns,
		donations:   donations,
		expenses:    expenses,
		settlements: settlements,
	}
}

func (h *Handler) CampaignRoutes(r chi.Router) {
	r.Post("/{id}/reconcile", h.reconcile)
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/settlements", h.importSettlement)
	r.Post("/sweeps/donations", h.creditDonations)
	r.Post("/sweeps/expenses", h.coverExpenses)
	r.Post("/sweeps/assets", h.renderAssets)
}

type reconcileResponse struct {
	CachedDonated       money.Money `json:"cached_total_donated"`
	CachedUnallocated   money.Money `json:"cached_unallocated_amount"`
	LedgerDonated       money.Money `json:"ledger_total_donated"`
	LedgerAllocated     money.Money `json:"ledger_allocated"`
	LedgerWithdrawn     money.Money `json:"ledger_withdrawn"`
	ExpectedUnallocated money.Money `json:"expected_unallocated_amount"`
	Drift               bool        `json:"drift"`
	Repaired            bool        `json:"repaired"`
}

// reconcile compares cached balances with the ledger; ?repair=true rewrites
// drifted values.
func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	repair, _ := strconv.ParseBool(r.URL.Query().Get("repair"))

	c, err := h.campaigns.Get(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	rep, err := h.engine.Reconcile(r.Context(), c.ID, repair)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	if rep.Drift {
		slog.Warn("campaign balance drift", "campaign_id", id, "repaired", rep.Repaired)
	}

	httpx.WriteJSON(w, http.StatusOK, reconcileResponse{
		CachedDonated:       rep.CachedDonated,
		CachedUnallocated:   rep.CachedUnallocated,
		LedgerDonated:       rep.Totals.Donated,
		LedgerAllocated:     rep.Totals.Allocated,
		LedgerWithdrawn:     rep.Totals.Withdrawn,
		ExpectedUnallocated: rep.Totals.Unallocated(),
		Drift:               rep.Drift,
		Repaired:            rep.Repaired,
	})
}

type settlementRowResponse struct {
	Line          int                `json:"line"`
	TransactionID string             `json:"transaction_id,omitempty"`
	Status        string             `json:"status,omitempty"`
	Outcome       settlement.Outcome `json:"outcome"`
	Allocations   int                `json:"allocations,omitempty"`
	Error         string             `json:"error,omitempty"`
}

type settlementResponse struct {
	Format  string                  `json:"format"`
	Charset string                  `json:"charset"`
	Applied int                     `json:"applied"`
	Failed  int                     `json:"failed"`
	Rows    []settlementRowResponse `json:"rows"`
}

// importSettlement applies a settlement report uploaded as a multipart "file"
// field. Row failures are reported in the body; the request itself succeeds.
func (h *Handler) importSettlement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxSettlementSize); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation", "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation", "file field is required")
		return
	}
	defer file.Close()

	rep, err := h.settlements.Import(r.Context(), file)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	resp := settlementResponse{
		Format:  rep.Format,
		Charset: rep.Charset,
		Applied: rep.Applied,
		Failed:  rep.Failed,
		Rows:    make([]settlementRowResponse, len(rep.Rows)),
	}

	for i, row := range rep.Rows {
		resp.Rows[i] = settlementRowResponse{
			Line:          row.Line,
			TransactionID: row.TransactionID,
			Status:        row.Status,
			Outcome:       row.Outcome,
			Allocations:   row.Allocations,
			Error:         row.Error,
		}
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

type sweepResponse struct {
	Processed int    `json:"processed"`
	Error     string `json:"error,omitempty"`
}

// Sweeps stop at the first failure; the work done up to then is reported
// with it.
func writeSweep(w http.ResponseWriter, n int, err error) {
	resp := sweepResponse{Processed: n}
	status := http.StatusOK

	if err != nil {
		slog.Error("sweep failed", "processed", n, "error", err)

		resp.Error = err.Error()
		status = http.StatusInternalServerError
	}

	httpx.WriteJSON(w, status, resp)
}

func (h *Handler) creditDonations(w http.ResponseWriter, r *http.Request) {
	n, err := h.donations.CreditPending(r.Context())
	writeSweep(w, n, err)
}

func (h *Handler) coverExpenses(w http.ResponseWriter, r *http.Request) {
	n, err := h.expenses.CoverPending(r.Context())
	writeSweep(w, n, err)
}

func (h *Handler) renderAssets(w http.ResponseWriter, r *http.Request) {
	n, err := h.campaigns.EnqueueMissingAssets(r.Context())
	writeSweep(w, n, err)
}
