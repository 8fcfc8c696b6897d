package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mobilemart/storefront/internal/users"
)

type ctxKey struct{}

// UserStore is the lookup the middleware needs; satisfied by users.Repo.
type UserStore interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Middleware struct {
	Tokens     *TokenManager
	Users      UserStore
	CookieName string
}

// RequireUser authenticates the request from the auth cookie and puts
// the loaded user on the context. 401 when the cookie is missing, the
// token fails verification, or the user no longer exists.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(m.CookieName)
		if err != nil || c.Value == "" {
			deny(w, http.StatusUnauthorized, "not authorized, log in first")
			return
		}
		userID, err := m.Tokens.Verify(c.Value)
		if err != nil {
			deny(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		u, err := m.Users.GetByID(r.Context(), userID)
		if err != nil {
			deny(w, http.StatusUnauthorized, "user not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

// RequireAdmin must run after RequireUser.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		if !ok || u.Role != users.RoleAdmin {
			deny(w, http.StatusForbidden, "access denied, admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserFrom(ctx context.Context) (users.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(users.User)
	return u, ok
}

func deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
