package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilemart/storefront/internal/users"
)

type fakeUserStore struct {
	byID map[string]users.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func newTestMiddleware() (*Middleware, *TokenManager) {
	tm := &TokenManager{Secret: []byte("test-secret"), TTL: time.Hour}
	store := &fakeUserStore{byID: map[string]users.User{
		"u1": {ID: "u1", Name: "Asha", Role: users.RoleUser},
		"a1": {ID: "a1", Name: "Root", Role: users.RoleAdmin},
	}}
	return &Middleware{Tokens: tm, Users: store, CookieName: "token"}, tm
}

func doRequest(h http.Handler, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireUser(t *testing.T) {
	mw, tm := newTestMiddleware()

	var seen users.User
	h := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no cookie", func(t *testing.T) {
		rec := doRequest(h, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "not authorized")
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(h, "bogus")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		token, err := tm.Mint("gone")
		require.NoError(t, err)
		rec := doRequest(h, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid", func(t *testing.T) {
		token, err := tm.Mint("u1")
		require.NoError(t, err)
		rec := doRequest(h, token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Asha", seen.Name)
	})
}

func TestRequireAdmin(t *testing.T) {
	mw, tm := newTestMiddleware()

	h := mw.RequireUser(mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("plain user", func(t *testing.T) {
		token, err := tm.Mint("u1")
		require.NoError(t, err)
		rec := doRequest(h, token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin", func(t *testing.T) {
		token, err := tm.Mint("a1")
		require.NoError(t, err)
		rec := doRequest(h, token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
