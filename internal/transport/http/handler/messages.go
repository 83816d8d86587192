package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-sms-relay/internal/application/message"
	"github.com/go-sms-relay/internal/domain"
	"github.com/go-sms-relay/internal/transport/http/middleware"
)

// MessageHandler handles sending messages and reading message history.
type MessageHandler struct {
	svc message.Service
}

func NewMessageHandler(svc message.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorEnvelope{Error: "Unauthorized"})
		return
	}
	var req domain.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Phone number and message body are required")
		return
	}
	// Missing inputs are rejected before any record is built.
	if req.To == "" || req.Body == "" {
		messageError(w, http.StatusBadRequest, "Phone number and message body are required")
		return
	}

	m, err := h.svc.Send(r.Context(), u.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDeliveryFailed):
			// The failed record was persisted; the caller still learns the outcome.
			messageError(w, http.StatusUnprocessableEntity, "Message saved but failed to send via SMS")
		default:
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorEnvelope{
					Errors:      ve.Violations,
					Status:      "error",
					MessageText: "Validation failed",
				})
				return
			}
			slog.Error("message creation failed", "user_id", u.UserID, "err", err)
			messageError(w, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}

	writeJSON(w, http.StatusCreated, MessageEnvelope{
		Message:     toMessageData(m),
		Status:      "success",
		MessageText: "Message processed successfully",
	})
}

func (h *MessageHandler) Index(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorEnvelope{Error: "Unauthorized"})
		return
	}
	targetID := chi.URLParam(r, "id")

	msgs, err := h.svc.ListForUser(r.Context(), u.UserID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			messageError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrForbidden):
			messageError(w, http.StatusForbidden, "Access denied")
		default:
			slog.Error("messages index failed", "user_id", u.UserID, "target_id", targetID, "err", err)
			messageError(w, http.StatusInternalServerError, "Failed to retrieve messages")
		}
		return
	}

	data := make([]MessageData, len(msgs))
	for i := range msgs {
		data[i] = *toMessageData(&msgs[i])
	}
	writeJSON(w, http.StatusOK, MessagesEnvelope{
		Messages:    data,
		Count:       len(data),
		Status:      "success",
		MessageText: "Messages retrieved successfully",
	})
}

func messageError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorEnvelope{Error: msg, Status: "error"})
}
