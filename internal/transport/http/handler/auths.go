package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-sms-relay/internal/application/auth"
	"github.com/go-sms-relay/internal/domain"
	"github.com/go-sms-relay/internal/transport/http/middleware"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authError(w, http.StatusUnauthorized, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		authError(w, http.StatusUnauthorized, "Email and password are required")
		return
	}
	u, token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			authError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		slog.Error("login failed", "err", err)
		authError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		User:    &UserData{ID: u.UserID, Email: u.Email, TokenVersion: u.TokenVersion},
		Token:   token,
		Message: "Authentication successful",
	})
}

func (h *AuthHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorEnvelope{Error: "Unauthorized"})
		return
	}
	if err := h.svc.Logout(r.Context(), u.UserID); err != nil {
		authError(w, http.StatusUnprocessableEntity, "Logout failed")
		return
	}
	writeJSON(w, http.StatusOK, SimpleEnvelope{Message: "Logout successful"})
}

func authError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, AuthErrorEnvelope{Error: msg, Message: "Authentication failed"})
}
