package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/mobilemart/storefront/internal/auth"
	kafkax "github.com/mobilemart/storefront/internal/kafka"
	"github.com/mobilemart/storefront/internal/users"
)

var (
	emailRe   = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phoneRe   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)
)

// UserStore is what the auth handler needs from persistence; satisfied
// by users.Repo.
type UserStore interface {
	Create(ctx context.Context, u users.User) (users.User, error)
	GetByEmail(ctx context.Context, email string) (users.User, error)
	SetResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error
	ClearResetToken(ctx context.Context, userID string) error
	ResetPassword(ctx context.Context, tokenHash, newPasswordHash string) (users.User, error)
}

type AuthHandler struct {
	Users      UserStore
	Tokens     *auth.TokenManager
	Producer   *kafkax.Producer // user.password.reset
	CookieName string
	BaseURL    string
	BcryptCost int
	Name       string
}

func (h *AuthHandler) Register(r *chi.Mux, mw *auth.Middleware) {
	r.Post("/api/register", h.register)
	r.Post("/api/login", h.login)
	r.With(mw.RequireUser).Get("/api/logout", h.logout)
	r.Post("/api/forgot-password", h.forgotPassword)
	r.Post("/api/reset-password/{token}", h.resetPassword)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

func (req registerRequest) validate() (string, bool) {
	switch {
	case req.Name == "":
		return "name is required", false
	case !emailRe.MatchString(req.Email):
		return "please enter a valid email", false
	case len(req.Password) < auth.MinPasswordLen:
		return "password must be at least 6 characters", false
	case !phoneRe.MatchString(req.Phone):
		return "phone number must be 10 digits", false
	case req.Gender != "male" && req.Gender != "female":
		return "gender must be male or female", false
	case req.Street == "" || req.City == "" || req.State == "":
		return "street, city and state are required", false
	case !pincodeRe.MatchString(req.Pincode):
		return "pin code must be 6 digits", false
	}
	return "", true
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Gender = strings.ToLower(req.Gender)
	if msg, ok := req.validate(); !ok {
		fail(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, users.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Gender:       req.Gender,
		Role:         users.RoleUser,
		Address: users.Address{
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			Pincode: req.Pincode,
		},
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "account created successfully",
		"userId":  u.ID,
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		// same answer for unknown email and wrong password
		fail(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	token, err := h.Tokens.Mint(u.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(h.Tokens.TTL / time.Second),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "login successful",
		"user":    map[string]string{"id": u.ID, "name": u.Name, "email": u.Email},
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "logout successful"})
}

func (h *AuthHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		fail(w, http.StatusBadRequest, "please provide email")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	token, hash, err := users.NewResetToken()
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Users.SetResetToken(ctx, u.ID, hash, time.Now().Add(users.ResetTokenTTL)); err != nil {
		respondError(w, err)
		return
	}

	resetURL := h.BaseURL + "/api/reset-password/" + token
	ev := kafkax.NewEnvelope(users.EventPasswordResetRequested, h.Name, r.Header.Get("X-Request-Id"), u.ID,
		users.PasswordResetRequestedPayload{
			UserID:   u.ID,
			Email:    u.Email,
			Name:     u.Name,
			ResetURL: resetURL,
		})
	h.Producer.Publish([]byte(u.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(users.EventPasswordResetRequested)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "password reset link sent to email",
	})
}

func (h *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		fail(w, http.StatusBadRequest, "please provide new password")
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLen {
		fail(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword, h.BcryptCost)
	if err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tokenHash := users.HashResetToken(chi.URLParam(r, "token"))
	if _, err := h.Users.ResetPassword(ctx, tokenHash, hash); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "password reset successful, you can now log in",
	})
}
