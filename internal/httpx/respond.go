package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mobilemart/storefront/internal/catalog"
	"github.com/mobilemart/storefront/internal/orders"
	"github.com/mobilemart/storefront/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}

// respondError maps the domain error taxonomy onto HTTP statuses:
// validation, stock and transition failures are 400, missing entities
// 404, everything else 500.
func respondError(w http.ResponseWriter, err error) {
	var (
		validation   orders.ValidationError
		notFound     orders.NotFoundError
		insufficient orders.InsufficientStockError
		transition   orders.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation),
		errors.As(err, &insufficient),
		errors.As(err, &transition):
		fail(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, users.ErrNotFound):
		fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, users.ErrResetTokenInvalid):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		fail(w, http.StatusInternalServerError, err.Error())
	}
}
