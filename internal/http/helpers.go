package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"cartera/internal/core"
	"cartera/internal/expr"
	"cartera/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondDomainError maps known domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidCutOffDay),
		errors.Is(err, core.ErrInvalidGraceDays),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidInstallment),
		errors.Is(err, core.ErrNotCreditCard),
		errors.Is(err, expr.ErrInvalidExpression),
		errors.Is(err, expr.ErrDivisionByZero):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// parseAmount evaluates an amount field. Plain decimals and "="-prefixed
// arithmetic expressions are both accepted; the result is rounded to cents.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := expr.Evaluate(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return core.RoundCurrency(d), nil
}

// dateOrToday parses the "date" query parameter, defaulting to the current
// day when absent.
func dateOrToday(r *http.Request) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get("date"))
	if v == "" {
		return core.Today(), nil
	}
	return core.ParseDate(v)
}

func cardCachePrefix(cardID int64) string {
	return fmt.Sprintf("card:%d:", cardID)
}
