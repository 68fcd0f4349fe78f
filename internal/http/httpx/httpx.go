package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
)

type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, APIError{Error: msg, Code: code})
}

// RetryAfterSeconds is suggested to clients that lost a ledger lock race.
const RetryAfterSeconds = "1"

// Fail maps err onto the ledger error taxonomy. Unclassified errors are
// logged and reported as a bare 500.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, ledger.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		WriteError(w, http.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	case errors.Is(err, ledger.ErrConcurrencyConflict):
		w.Header().Set("Retry-After", RetryAfterSeconds)
		WriteError(w, http.StatusConflict, "concurrency_conflict", "campaign is busy, retry shortly")
	case errors.Is(err, ledger.ErrInvalidState):
		WriteError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Decode reads a JSON request body into v and checks its validate tags.
// Domain rules such as positive amounts stay with the services.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", ledger.ErrValidation, err)
	}

	if err := validate.Struct(v); err != nil {
		var fields validator.ValidationErrors
		if !errors.As(err, &fields) {
			return fmt.Errorf("validating request body: %w", err)
		}

		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			msgs = append(msgs, fieldMessage(f))
		}

		return fmt.Errorf("%w: %s", ledger.ErrValidation, strings.Join(msgs, "; "))
	}

	return nil
}

func fieldMessage(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return f.Field() + " is required"
	case "max":
		return f.Field() + " must be at most " + f.Param() + " characters"
	case "url", "http_url":
		return f.Field() + " must be a valid URL"
	case "oneof":
		return f.Field() + " must be one of " + f.Param()
	}

	return f.Field() + " is invalid"
}

// IDParam parses the named chi URL parameter as an external id.
func IDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ledger.ErrValidation, name)
	}

	return id, nil
}
