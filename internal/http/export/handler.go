package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/export"
	"github.com/MrJamesThe3rd/fundly/internal/http/httpx"
)

// Handler serves campaign audit bundles. Bundles fetch receipt URLs server
// side, so they are limited to the organizer and admins.
type Handler struct {
	svc       *export.Service
	campaigns *campaign.Service
}

func NewHandler(svc *export.Service, campaigns *campaign.Service) *Handler {
	return &Handler{svc: svc, campaigns: campaigns}
}

// CampaignRoutes expect an authenticated caller.
func (h *Handler) CampaignRoutes(r chi.Router) {
	r.Get("/{id}/bundle", h.organizerBundle)
}

// AdminRoutes expect the caller's role to have been checked already.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/{id}/bundle", h.adminBundle)
}

func (h *Handler) organizerBundle(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	if _, err := h.campaigns.GetOwned(r.Context(), id, httpx.Caller(r)); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	h.write(w, r, id)
}

func (h *Handler) adminBundle(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	h.write(w, r, id)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	bundle, err := h.svc.Open(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(id, time.Now())))

	// Once the archive starts streaming, failures can only be logged.
	manifest, err := bundle.Write(r.Context(), w)
	if err != nil {
		slog.Error("failed to write bundle", "campaign_id", id, "error", err)
		return
	}

	if n := manifest.Missing(); n > 0 {
		slog.Warn("bundle is missing receipts", "campaign_id", id, "missing", n)
	}
}
