package campaign

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/http/httpx"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

type Handler struct {
	svc *campaign.Service
}

func NewHandler(svc *campaign.Service) *Handler {
	return &Handler{svc: svc}
}

// PublicRoutes are mounted without authentication.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/{id}", h.get)
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/placements", h.createPlacement)
	r.Get("/{id}/placements", h.listPlacements)
}

func (h *Handler) PlacementRoutes(r chi.Router) {
	r.Patch("/{id}", h.updatePlacement)
	r.Delete("/{id}", h.deletePlacement)
}

// AdminRoutes expect the caller's role to have been checked already.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/", h.browse)
	r.Post("/{id}/verify", h.verify)
}

type createCampaignRequest struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description" validate:"max=5000"`
	GoalAmount  money.Money `json:"goal_amount"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), campaign.CreateParams{
		OrganizerID: httpx.Caller(r),
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	filter.OrganizerID = httpx.Caller(r)

	cs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(cs))
}

// browse lists every organizer's campaigns, optionally narrowed by ?organizer=.
func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	filter.OrganizerID = r.URL.Query().Get("organizer")

	cs, err := h.svc.Browse(r.Context(), filter)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(cs))
}

func parseListFilter(r *http.Request) (campaign.ListFilter, error) {
	q := r.URL.Query()

	order, desc, err := campaign.ParseOrdering(q.Get("ordering"))
	if err != nil {
		return campaign.ListFilter{}, err
	}

	filter := campaign.ListFilter{
		Search:     q.Get("search"),
		OrderBy:    order,
		Descending: desc,
	}

	if s := q.Get("is_active"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			filter.IsActive = new(b)
		}
	}

	if s := q.Get("verified"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			filter.Verified = new(b)
		}
	}

	return filter, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(c))
}

type updateCampaignRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitnil,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitnil,max=5000"`
	GoalAmount  *money.Money `json:"goal_amount,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	IsActive    *bool        `json:"is_active,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	var req updateCampaignRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), id, httpx.Caller(r), campaign.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		EndDate:     req.EndDate,
		IsActive:    req.IsActive,
	})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(c))
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

type verifyRequest struct {
	Verified *bool `json:"verified"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	req := verifyRequest{Verified: new(true)}
	if r.ContentLength > 0 {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Fail(w, r, err)
			return
		}
	}

	verified := req.Verified == nil || *req.Verified

	c, err := h.svc.Verify(r.Context(), id, verified)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(c))
}

type placementRequest struct {
	Name string `json:"name" validate:"max=100"`
	URL  string `json:"url" validate:"omitempty,http_url"`
}

func (h *Handler) createPlacement(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	var req placementRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	p, err := h.svc.CreatePlacement(r.Context(), id, httpx.Caller(r), campaign.PlacementParams{Name: req.Name, URL: req.URL})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPlacementResponse(p))
}

func (h *Handler) listPlacements(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	ps, err := h.svc.ListPlacements(r.Context(), id, httpx.Caller(r))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPlacementResponseList(ps))
}

func (h *Handler) updatePlacement(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	var req placementRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	p, err := h.svc.UpdatePlacement(r.Context(), id, httpx.Caller(r), campaign.PlacementParams{Name: req.Name, URL: req.URL})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPlacementResponse(p))
}

func (h *Handler) deletePlacement(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	if err := h.svc.DeletePlacement(r.Context(), id, httpx.Caller(r)); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
