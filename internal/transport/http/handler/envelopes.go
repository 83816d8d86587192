package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-sms-relay/internal/domain"
)

// The envelope shapes below are the relay's public wire contract;
// existing clients depend on the exact field names.

// UserData is the account projection returned by auth endpoints. Register
// responses include created_at, login responses include token_version.
type UserData struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	TokenVersion int        `json:"token_version,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// AuthEnvelope wraps register and login success responses.
type AuthEnvelope struct {
	User    *UserData `json:"user"`
	Token   string    `json:"token"`
	Message string    `json:"message"`
}

// AuthErrorEnvelope wraps auth failures.
type AuthErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RegisterErrorEnvelope wraps registration validation failures.
type RegisterErrorEnvelope struct {
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

// MessageData is the message projection returned by message endpoints.
type MessageData struct {
	ID          string    `json:"id"`
	Body        string    `json:"body"`
	PhoneNumber string    `json:"phone_number"`
	Status      string    `json:"status"`
	ProviderSID *string   `json:"provider_sid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MessageEnvelope wraps a single-message success response.
type MessageEnvelope struct {
	Message     *MessageData `json:"message"`
	Status      string       `json:"status"`
	MessageText string       `json:"message_text"`
}

// MessagesEnvelope wraps a message-history response.
type MessagesEnvelope struct {
	Messages    []MessageData `json:"messages"`
	Count       int           `json:"count"`
	Status      string        `json:"status"`
	MessageText string        `json:"message_text"`
}

// ErrorEnvelope is the generic error wrapper for message endpoints.
type ErrorEnvelope struct {
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
}

// ValidationErrorEnvelope carries field-level violations.
type ValidationErrorEnvelope struct {
	Errors      []string `json:"errors"`
	Status      string   `json:"status"`
	MessageText string   `json:"message_text"`
}

// SimpleEnvelope wraps confirmation-only responses such as logout.
type SimpleEnvelope struct {
	Message string `json:"message"`
}

func toMessageData(m *domain.Message) *MessageData {
	return &MessageData{
		ID:          m.MessageID,
		Body:        m.Body,
		PhoneNumber: m.To,
		Status:      m.Status,
		ProviderSID: m.ProviderSID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
