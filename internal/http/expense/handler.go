package expense

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/expense"
	"github.com/MrJamesThe3rd/fundly/internal/http/httpx"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

type Handler struct {
	svc       *expense.Service
	campaigns *campaign.Service
}

func NewHandler(svc *expense.Service, campaigns *campaign.Service) *Handler {
	return &Handler{svc: svc, campaigns: campaigns}
}

func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/{id}", h.get)
}

func (h *Handler) Routes(r chi.Router) {
	r.Delete("/{id}", h.delete)
	r.Put("/{id}/receipt", h.attachReceipt)
}

func (h *Handler) PublicCampaignRoutes(r chi.Router) {
	r.Get("/{id}/expenses", h.listByCampaign)
}

func (h *Handler) CampaignRoutes(r chi.Router) {
	r.Post("/{id}/expenses", h.create)
}

type expenseResponse struct {
	ID          uuid.UUID   `json:"id"`
	Description string      `json:"description"`
	Amount      money.Money `json:"amount"`
	Allocated   money.Money `json:"allocated"`
	Need        money.Money `json:"need"`
	Timestamp   time.Time   `json:"timestamp"`
	CreatedBy   string      `json:"created_by"`
	ReceiptURL  string      `json:"receipt_url,omitempty"`
}

type createExpenseResponse struct {
	Expense     expenseResponse `json:"expense"`
	Allocations int             `json:"allocations"`
	// AllocationPending is set when the expense was recorded but could not be
	// covered yet; it is picked up by a later pass.
	AllocationPending bool `json:"allocation_pending,omitempty"`
}

func toResponse(e *ledger.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ExternalID,
		Description: e.Description,
		Amount:      e.Amount,
		Allocated:   e.Allocated,
		Need:        e.Need(),
		Timestamp:   e.Timestamp,
		CreatedBy:   e.CreatedBy,
		ReceiptURL:  e.ReceiptURL,
	}
}

type createExpenseRequest struct {
	Description string      `json:"description" validate:"required,max=500"`
	Amount      money.Money `json:"amount"`
	ReceiptURL  string      `json:"receipt_url,omitempty" validate:"omitempty,http_url"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	var req createExpenseRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	e, allocs, err := h.svc.Create(r.Context(), expense.CreateParams{
		CampaignID:  id,
		CreatedBy:   httpx.Caller(r),
		Description: req.Description,
		Amount:      req.Amount,
		ReceiptURL:  req.ReceiptURL,
	})

	switch {
	case err != nil && e != nil:
		slog.Warn("expense recorded without allocation", "expense_id", e.ExternalID, "error", err)
		httpx.WriteJSON(w, http.StatusAccepted, createExpenseResponse{Expense: toResponse(e), AllocationPending: true})
	case err != nil:
		httpx.Fail(w, r, err)
	default:
		httpx.WriteJSON(w, http.StatusCreated, createExpenseResponse{Expense: toResponse(e), Allocations: len(allocs)})
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) listByCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	c, err := h.campaigns.Get(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	es, err := h.svc.List(r.Context(), c.ID)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	resp := make([]expenseResponse, len(es))
	for i, e := range es {
		resp[i] = toResponse(e)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id, httpx.Caller(r)); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// attachReceipt takes the receipt as a multipart "file" field.
func (h *Handler) attachReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(expense.MaxReceiptSize); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation", "failed to parse form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation", "file field is required")
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, expense.MaxReceiptSize+1))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	contentType, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(body)
	}

	e, err := h.svc.AttachReceipt(r.Context(), id, httpx.Caller(r), contentType, body)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(e))
}
