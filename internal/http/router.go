package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/fundly/internal/auth"
	"github.com/MrJamesThe3rd/fundly/internal/http/admin"
	"github.com/MrJamesThe3rd/fundly/internal/http/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/http/donation"
	"github.com/MrJamesThe3rd/fundly/internal/http/expense"
	"github.com/MrJamesThe3rd/fundly/internal/http/export"
	"github.com/MrJamesThe3rd/fundly/internal/http/httpx"
	"github.com/MrJamesThe3rd/fundly/internal/http/report"
	"github.com/MrJamesThe3rd/fundly/internal/http/withdrawal"
	"github.com/MrJamesThe3rd/fundly/internal/metrics"
)

type Config struct {
	Tokens        *auth.TokenManager
	AdminRole     string
	WebhookSecret string
	CORSOrigins   []string
	// Assets serves locally stored files under /assets; nil when objects
	// live elsewhere.
	Assets http.Handler
}

type Handlers struct {
	Campaigns   *campaign.Handler
	Donations   *donation.Handler
	Expenses    *expense.Handler
	Withdrawals *withdrawal.Handler
	Reports     *report.Handler
	Exports     *export.Handler
	Admin       *admin.Handler
}

func New(cfg Config, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(httpx.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", metrics.Handler())

	if cfg.Assets != nil {
		router.Handle("/assets/*", http.StripPrefix("/assets", cfg.Assets))
	}

	authenticate := httpx.Authenticate(cfg.Tokens)
	requireAdmin := httpx.RequireRole(cfg.AdminRole)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/campaigns", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				h.Campaigns.PublicRoutes(r)
				h.Expenses.PublicCampaignRoutes(r)
				h.Reports.CampaignRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(middleware.AllowContentType("application/json"))

				h.Campaigns.Routes(r)
				h.Donations.CampaignRoutes(r)
				h.Expenses.CampaignRoutes(r)
				h.Withdrawals.CampaignRoutes(r)
				h.Exports.CampaignRoutes(r)
			})
		})

		r.With(authenticate).Route("/placements", h.Campaigns.PlacementRoutes)

		r.Route("/donations", func(r chi.Router) {
			r.Use(httpx.Identify(cfg.Tokens))

			h.Donations.Routes(r)
			h.Reports.DonationRoutes(r)
		})

		r.Route("/expenses", func(r chi.Router) {
			h.Expenses.PublicRoutes(r)
			h.Reports.ExpenseRoutes(r)

			r.With(authenticate).Group(h.Expenses.Routes)
		})

		r.With(httpx.RequireSecret(donation.SignatureHeader, cfg.WebhookSecret)).
			Route("/payments/webhook", h.Donations.WebhookRoutes)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requireAdmin)

			r.Route("/campaigns", func(r chi.Router) {
				h.Campaigns.AdminRoutes(r)
				h.Admin.CampaignRoutes(r)
				h.Exports.AdminRoutes(r)
			})
			r.Route("/withdrawals", h.Withdrawals.AdminRoutes)
			h.Admin.Routes(r)
		})
	})

	return router
}
