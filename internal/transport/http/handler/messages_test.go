package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-sms-relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMessageRouter(t *testing.T, svc *mockMessageService, u *domain.User) (http.Handler, string) {
	t.Helper()
	h := NewMessageHandler(svc)
	return authedRouter(t, u, func(r chi.Router) {
		r.Post("/messages", h.Create)
		r.Get("/users/{id}/messages", h.Index)
	})
}

func TestMessageCreate_Success(t *testing.T) {
	svc := &mockMessageService{}
	sid := "sid-1"
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.On("Send", mock.Anything, "u1", domain.CreateMessageRequest{
		To: "+1234567890", Body: "hello",
	}).Return(&domain.Message{
		MessageID: "m1", UserID: "u1", To: "+1234567890", Body: "hello",
		Status: domain.StatusQueued, ProviderSID: &sid, CreatedAt: now, UpdatedAt: now,
	}, nil)

	u := &domain.User{UserID: "u1", TokenVersion: 1}
	router, token := newMessageRouter(t, svc, u)

	req := httptest.NewRequest(http.MethodPost, "/messages",
		strings.NewReader(`{"to":"+1234567890","body":"hello"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "Message processed successfully", env.MessageText)
	require.NotNil(t, env.Message)
	assert.Equal(t, "m1", env.Message.ID)
	assert.Equal(t, domain.StatusQueued, env.Message.Status)
	require.NotNil(t, env.Message.ProviderSID)
	assert.Equal(t, "sid-1", *env.Message.ProviderSID)
}

func TestMessageCreate_MissingFields(t *testing.T) {
	for _, body := range []string{`{}`, `{"to":"+1234567890"}`, `{"body":"hello"}`} {
		svc := &mockMessageService{}
		u := &domain.User{UserID: "u1", TokenVersion: 1}
		router, token := newMessageRouter(t, svc, u)

		req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		var env ErrorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, "Phone number and message body are required", env.Error)
		svc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestMessageCreate_DeliveryFailed(t *testing.T) {
	svc := &mockMessageService{}
	svc.On("Send", mock.Anything, "u1", mock.Anything).Return(&domain.Message{
		MessageID: "m1", Status: domain.StatusFailed,
	}, fmt.Errorf("message m1 saved but not sent: %w", domain.ErrDeliveryFailed))

	u := &domain.User{UserID: "u1", TokenVersion: 1}
	router, token := newMessageRouter(t, svc, u)

	req := httptest.NewRequest(http.MethodPost, "/messages",
		strings.NewReader(`{"to":"+1234567890","body":"hello"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Message saved but failed to send via SMS", env.Error)
	assert.Equal(t, "error", env.Status)
}

func TestMessageCreate_ValidationFailure(t *testing.T) {
	svc := &mockMessageService{}
	svc.On("Send", mock.Anything, "u1", mock.Anything).
		Return(nil, &domain.ValidationError{Violations: []string{"To must be a valid phone number"}})

	u := &domain.User{UserID: "u1", TokenVersion: 1}
	router, token := newMessageRouter(t, svc, u)

	req := httptest.NewRequest(http.MethodPost, "/messages",
		strings.NewReader(`{"to":"12345","body":"hello"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var env ValidationErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Validation failed", env.MessageText)
	assert.Contains(t, env.Errors, "To must be a valid phone number")
}

func TestMessageCreate_ServiceError(t *testing.T) {
	svc := &mockMessageService{}
	svc.On("Send", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("dynamo down"))

	u := &domain.User{UserID: "u1", TokenVersion: 1}
	router, token := newMessageRouter(t, svc, u)

	req := httptest.NewRequest(http.MethodPost, "/messages",
		strings.NewReader(`{"to":"+1234567890","body":"hello"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMessageCreate_NoToken(t *testing.T) {
	svc := &mockMessageService{}
	u := &domain.User{UserID: "u1", TokenVersion: 1}
	router, _ := newMessageRouter(t, svc, u)

	req := httptest.NewRequest(http.MethodPost, "/messages",
		strings.NewReader(`{"to":"+1234567890","body":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestMessageIndex_Success(t *testing.T) {
	svc := &mockMessageService{}
	svc.On("ListForUser", mock.Anything, "u1", "u1").Return([]domain.Message{
		{MessageID: "m2", UserID: "u1", Status: domain.StatusQueued},
		{MessageID: "m1", UserID: "u1", Status: domain.StatusFailed},
	}, nil)

	u := &domain.User{UserID: "u1", TokenVersion: 1}
	router, token := newMessageRouter(t, svc, u)

	req := httptest.NewRequest(http.MethodGet, "/users/u1/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env MessagesEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 2, env.Count)
	assert.Equal(t, "Messages retrieved successfully", env.MessageText)
	require.Len(t, env.Messages, 2)
	assert.Equal(t, "m2", env.Messages[0].ID)
}

func TestMessageIndex_EmptyHistory(t *testing.T) {
	svc := &mockMessageService{}
	svc.On("ListForUser", mock.Anything, "u1", "u1").Return([]domain.Message{}, nil)

	u := &domain.User{UserID: "u1", TokenVersion: 1}
	router, token := newMessageRouter(t, svc, u)

	req := httptest.NewRequest(http.MethodGet, "/users/u1/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env MessagesEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 0, env.Count)
	assert.NotNil(t, env.Messages)
}

func TestMessageIndex_UnknownUser(t *testing.T) {
	svc := &mockMessageService{}
	svc.On("ListForUser", mock.Anything, "u1", "ghost").
		Return(nil, fmt.Errorf("user ghost: %w", domain.ErrNotFound))

	u := &domain.User{UserID: "u1", TokenVersion: 1}
	router, token := newMessageRouter(t, svc, u)

	req := httptest.NewRequest(http.MethodGet, "/users/ghost/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "User not found", env.Error)
}

func TestMessageIndex_OtherUser(t *testing.T) {
	svc := &mockMessageService{}
	svc.On("ListForUser", mock.Anything, "u1", "u2").
		Return(nil, fmt.Errorf("messages of user u2: %w", domain.ErrForbidden))

	u := &domain.User{UserID: "u1", TokenVersion: 1}
	router, token := newMessageRouter(t, svc, u)

	req := httptest.NewRequest(http.MethodGet, "/users/u2/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Access denied", env.Error)
}
