package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/store"
)

const dayFormat = "2006-01-02"

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated owner id, set by the
// bearer middleware.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

func contextWithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorEnvelope{Error: msg})
}

// decodeJSON rejects unknown fields so typos surface as 400s instead
// of silently dropped attributes.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func parseDay(s string) (core.Date, error) {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return core.Date{Time: t}, nil
}

// respondStoreError maps service and store failures onto the error
// envelope. Validation sentinels become 422, missing records 404,
// anything else a logged 500.
func respondStoreError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, store.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email already registered")
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(ctx, "request failed",
			"request_id", trace.RequestIDFromContext(ctx), "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidDate, core.ErrInvalidAmount, core.ErrEmptyName,
		core.ErrInvalidCategory, core.ErrInvalidCycle, core.ErrInvalidPeriod,
		core.ErrInvalidEmail, core.ErrPurposeTooLong,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
