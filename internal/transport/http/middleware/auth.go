package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-sms-relay/internal/domain"
	jwtinfra "github.com/go-sms-relay/internal/infrastructure/jwt"
)

type contextKey string

const userKey contextKey = "current_user"

// UserLoader is the slice of the user store the auth gate needs.
type UserLoader interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// Auth is the authentication gate for protected routes. It extracts the
// Bearer token, verifies it, loads the account it names, and requires the
// token's revocation counter to equal the account's current one. Every
// failure mode (missing header, malformed or expired token, unknown
// account, stale counter) collapses into the same 401 so nothing is
// leaked about which check failed.
func Auth(provider *jwtinfra.Provider, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				unauthorized(w)
				return
			}
			claims, err := provider.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}
			u, err := users.Get(r.Context(), claims.UserID)
			if err != nil || u.TokenVersion != claims.TokenVersion {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
}

// UserFromContext extracts the authenticated account from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}
