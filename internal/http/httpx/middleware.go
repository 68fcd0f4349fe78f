package httpx

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fundly/internal/auth"
	"github.com/MrJamesThe3rd/fundly/internal/metrics"
)

// Authenticate verifies the bearer token and stores the caller identity in
// the request context.
func Authenticate(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims, err := tm.Parse(token)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token")
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{UserID: claims.UserID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identify attaches the caller identity when a valid bearer token is present
// and lets anonymous requests through.
func Identify(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if claims, err := tm.Parse(token); err == nil {
				r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{UserID: claims.UserID, Role: claims.Role}))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	ah := r.Header.Get("Authorization")
	if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
		return "", false
	}

	return strings.TrimSpace(ah[len("Bearer "):]), true
}

// RequireRole lets through only authenticated callers holding role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			if id.Role != role {
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSecret guards server-to-server callbacks with a shared secret header.
func RequireSecret(header, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(header)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Caller returns the authenticated user id. Routes using it sit behind
// Authenticate.
func Caller(r *http.Request) string {
	id, _ := auth.FromContext(r.Context())
	return id.UserID
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Metrics counts requests by route pattern, method and status.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.RequestsTotal.WithLabelValues(routePattern(r), r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}

	return "unmatched"
}
