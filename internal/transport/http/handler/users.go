package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-sms-relay/internal/application/user"
	"github.com/go-sms-relay/internal/domain"
)

// UserHandler handles account registration.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, RegisterErrorEnvelope{
			Errors:  []string{"Request body must be valid JSON"},
			Message: "User creation failed",
		})
		return
	}
	u, token, err := h.svc.Register(r.Context(), req)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusUnprocessableEntity, RegisterErrorEnvelope{
				Errors:  ve.Violations,
				Message: "User creation failed",
			})
			return
		}
		slog.Error("user creation failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, RegisterErrorEnvelope{
			Errors:  []string{"User creation failed"},
			Message: "Registration failed",
		})
		return
	}
	created := u.CreatedAt
	writeJSON(w, http.StatusCreated, AuthEnvelope{
		User:    &UserData{ID: u.UserID, Email: u.Email, CreatedAt: &created},
		Token:   token,
		Message: "User created successfully",
	})
}
