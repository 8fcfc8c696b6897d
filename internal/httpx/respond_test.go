package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mobilemart/storefront/internal/catalog"
	"github.com/mobilemart/storefront/internal/orders"
	"github.com/mobilemart/storefront/internal/users"
)

func TestRespondError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", orders.ValidationError{Msg: "bad"}, http.StatusBadRequest},
		{"insufficient stock", orders.InsufficientStockError{ProductName: "Pixel 9", Available: 1, Requested: 2}, http.StatusBadRequest},
		{"invalid transition", orders.InvalidTransitionError{From: orders.StatusDelivered, To: orders.StatusCancelled}, http.StatusBadRequest},
		{"order not found", orders.NotFoundError{Entity: "order"}, http.StatusNotFound},
		{"product not found", catalog.ErrNotFound, http.StatusNotFound},
		{"user not found", users.ErrNotFound, http.StatusNotFound},
		{"email taken", users.ErrEmailTaken, http.StatusBadRequest},
		{"reset token invalid", users.ErrResetTokenInvalid, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, c.err)
			assert.Equal(t, c.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestInsufficientStockMessageNamesProduct(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, orders.InsufficientStockError{ProductName: "Galaxy S25", Available: 2, Requested: 5})
	assert.Contains(t, rec.Body.String(), "Galaxy S25")
}
