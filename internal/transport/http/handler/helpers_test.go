package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-sms-relay/internal/config"
	"github.com/go-sms-relay/internal/domain"
	jwtinfra "github.com/go-sms-relay/internal/infrastructure/jwt"
	"github.com/go-sms-relay/internal/transport/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- service mocks shared across the handler tests ---

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}
func (m *mockAuthService) Logout(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockMessageService struct{ mock.Mock }

func (m *mockMessageService) Send(ctx context.Context, userID string, req domain.CreateMessageRequest) (*domain.Message, error) {
	args := m.Called(ctx, userID, req)
	if msg, _ := args.Get(0).(*domain.Message); msg != nil {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMessageService) ListForUser(ctx context.Context, callerID, targetID string) ([]domain.Message, error) {
	args := m.Called(ctx, callerID, targetID)
	if msgs, _ := args.Get(0).([]domain.Message); msgs != nil {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

// stubUserLoader serves exactly one account, enough for the auth gate.
type stubUserLoader struct{ u *domain.User }

func (s *stubUserLoader) Get(_ context.Context, userID string) (*domain.User, error) {
	if s.u != nil && s.u.UserID == userID {
		return s.u, nil
	}
	return nil, domain.ErrNotFound
}

func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour})
	require.NoError(t, err)
	return p
}

// authedRouter mounts the given routes behind the real auth gate and returns
// the router plus a valid bearer token for u.
func authedRouter(t *testing.T, u *domain.User, register func(r chi.Router)) (http.Handler, string) {
	t.Helper()
	provider := newTestProvider(t)
	token, err := provider.Sign(u.UserID, u.TokenVersion)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(provider, &stubUserLoader{u: u}))
		register(r)
	})
	return r, token
}
