package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fundly/internal/auth"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
)

func TestFail(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}

	tests := []testCase{
		{name: "Validation", err: fmt.Errorf("%w: amount must be positive", ledger.ErrValidation), wantStatus: http.StatusBadRequest, wantCode: "validation"},
		{name: "Forbidden", err: ledger.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{name: "NotFound", err: fmt.Errorf("getting campaign: %w", ledger.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "InvalidState", err: ledger.ErrInvalidState, wantStatus: http.StatusConflict, wantCode: "invalid_state"},
		{name: "InsufficientFunds", err: ledger.ErrInsufficientFunds, wantStatus: http.StatusUnprocessableEntity, wantCode: "insufficient_funds"},
		{name: "Conflict", err: ledger.ErrConcurrencyConflict, wantStatus: http.StatusConflict, wantCode: "concurrency_conflict"},
		{name: "Unclassified", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError, wantCode: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)

			if tt.wantCode == "concurrency_conflict" {
				assert.Equal(t, RetryAfterSeconds, rec.Header().Get("Retry-After"))
			}

			if tt.wantCode == "internal" {
				assert.Equal(t, "internal error", body.Error)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required,max=5"`
		Link string `json:"link" validate:"omitempty,http_url"`
	}

	type testCase struct {
		name    string
		body    string
		wantErr string
	}

	tests := []testCase{
		{name: "Valid", body: `{"name":"pump","link":"https://example.com/r.pdf"}`},
		{name: "Malformed", body: `{"name":`, wantErr: "invalid request body"},
		{name: "Missing", body: `{}`, wantErr: "name is required"},
		{name: "TooLong", body: `{"name":"pumping"}`, wantErr: "name must be at most 5 characters"},
		{name: "BadURL", body: `{"name":"pump","link":"not a url"}`, wantErr: "link must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload

			err := Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), &got)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "pump", got.Name)

				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ledger.ErrValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	tm := auth.NewTokenManager("secret", "fundly", time.Hour)
	token, err := tm.Issue("user-1", "organizer")
	require.NoError(t, err)

	other := auth.NewTokenManager("other", "fundly", time.Hour)
	forged, err := other.Issue("user-1", "admin")
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(id.UserID + "/" + id.Role))
	})

	type testCase struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{name: "Valid", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: "user-1/organizer"},
		{name: "LowercaseScheme", header: "bearer " + token, wantStatus: http.StatusOK, wantBody: "user-1/organizer"},
		{name: "Missing", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic dXNlcg==", wantStatus: http.StatusUnauthorized},
		{name: "WrongKey", header: "Bearer " + forged, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			Authenticate(tm)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestIdentify_AnonymousPassesThrough(t *testing.T) {
	tm := auth.NewTokenManager("secret", "fundly", time.Hour)

	var called bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Empty(t, Caller(r))
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	Identify(tm)(next).ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	type testCase struct {
		name       string
		identity   *auth.Identity
		wantStatus int
	}

	tests := []testCase{
		{name: "Admin", identity: &auth.Identity{UserID: "a", Role: "admin"}, wantStatus: http.StatusTeapot},
		{name: "Organizer", identity: &auth.Identity{UserID: "o", Role: "organizer"}, wantStatus: http.StatusForbidden},
		{name: "Anonymous", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.identity != nil {
				req = req.WithContext(auth.WithIdentity(req.Context(), *tt.identity))
			}

			rec := httptest.NewRecorder()
			RequireRole("admin")(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireSecret(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	type testCase struct {
		name       string
		secret     string
		header     string
		wantStatus int
	}

	tests := []testCase{
		{name: "Match", secret: "s3cret", header: "s3cret", wantStatus: http.StatusNoContent},
		{name: "Mismatch", secret: "s3cret", header: "guess", wantStatus: http.StatusUnauthorized},
		{name: "Missing", secret: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "UnconfiguredSecret", secret: "", header: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Signature", tt.header)
			}

			rec := httptest.NewRecorder()
			RequireSecret("X-Signature", tt.secret)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
