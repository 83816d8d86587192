package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-sms-relay/internal/config"
	"github.com/go-sms-relay/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-sms-relay/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the router with repos that never see traffic in these
// tests; they exist only so route construction succeeds.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		AllowedOrigins: []string{"*"},
		JWTSecret:      "test-secret",
		JWTExpiry:      time.Hour,
	}
	provider, err := jwtinfra.NewProvider(cfg)
	require.NoError(t, err)
	return NewRouter(cfg, &Deps{
		UserRepo:    dynamo.NewUserRepo(nil, "users"),
		MessageRepo: dynamo.NewMessageRepo(nil, "messages"),
		SMSGateway:  nil,
		JWTProvider: provider,
	})
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, target := range []string{"/", "/up"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", target)
	}
}

func TestRouter_ProtectedEndpointsRequireToken(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method string
		target string
	}{
		{http.MethodDelete, "/auths"},
		{http.MethodPost, "/messages"},
		{http.MethodGet, "/users/u1/messages"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.target)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
