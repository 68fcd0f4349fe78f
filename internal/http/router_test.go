package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fundly/internal/auth"
	fundlyHttp "github.com/MrJamesThe3rd/fundly/internal/http"
	"github.com/MrJamesThe3rd/fundly/internal/http/admin"
	"github.com/MrJamesThe3rd/fundly/internal/http/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/http/donation"
	"github.com/MrJamesThe3rd/fundly/internal/http/expense"
	"github.com/MrJamesThe3rd/fundly/internal/http/export"
	"github.com/MrJamesThe3rd/fundly/internal/http/report"
	"github.com/MrJamesThe3rd/fundly/internal/http/withdrawal"
)

// The requests below are all turned away before reaching a service, so the
// handlers run without one.
func newRouter(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()

	tm := auth.NewTokenManager("secret", "fundly", time.Hour)

	router := fundlyHttp.New(fundlyHttp.Config{
		Tokens:        tm,
		AdminRole:     "admin",
		WebhookSecret: "hook",
		CORSOrigins:   []string{"https://fundly.test"},
	}, fundlyHttp.Handlers{
		Campaigns:   campaign.NewHandler(nil),
		Donations:   donation.NewHandler(nil, nil),
		Expenses:    expense.NewHandler(nil, nil),
		Withdrawals: withdrawal.NewHandler(nil, nil),
		Reports:     report.NewHandler(nil, nil, nil),
		Exports:     export.NewHandler(nil, nil),
		Admin:       admin.NewHandler(nil, nil, nil, nil, nil),
	})

	return router, tm
}

func TestRouter(t *testing.T) {
	router, tm := newRouter(t)

	organizer, err := tm.Issue("org-1", "organizer")
	require.NoError(t, err)

	type testCase struct {
		name       string
		method     string
		path       string
		token      string
		header     [2]string
		wantStatus int
	}

	tests := []testCase{
		{name: "Health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "Metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "CampaignListNeedsAuth", method: http.MethodGet, path: "/api/v1/campaigns/", wantStatus: http.StatusUnauthorized},
		{name: "ExpenseCreateNeedsAuth", method: http.MethodPost, path: "/api/v1/campaigns/" + "00000000-0000-0000-0000-000000000001/expenses", wantStatus: http.StatusUnauthorized},
		{name: "BadCampaignID", method: http.MethodGet, path: "/api/v1/campaigns/not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "WebhookNeedsSignature", method: http.MethodPost, path: "/api/v1/payments/webhook", wantStatus: http.StatusUnauthorized},
		{name: "AdminNeedsAuth", method: http.MethodGet, path: "/api/v1/admin/withdrawals/pending", wantStatus: http.StatusUnauthorized},
		{name: "AdminNeedsRole", method: http.MethodGet, path: "/api/v1/admin/withdrawals/pending", token: organizer, wantStatus: http.StatusForbidden},
		{name: "BundleNeedsAuth", method: http.MethodGet, path: "/api/v1/campaigns/00000000-0000-0000-0000-000000000001/bundle", wantStatus: http.StatusUnauthorized},
		{name: "AdminBrowseNeedsRole", method: http.MethodGet, path: "/api/v1/admin/campaigns/", token: organizer, wantStatus: http.StatusForbidden},
		{name: "SweepNeedsRole", method: http.MethodPost, path: "/api/v1/admin/sweeps/donations", token: organizer, wantStatus: http.StatusForbidden},
		{name: "CORSPreflight", method: http.MethodOptions, path: "/api/v1/campaigns/", header: [2]string{"Origin", "https://fundly.test"}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(""))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			if tt.header[0] != "" {
				req.Header.Set(tt.header[0], tt.header[1])
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
