package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-sms-relay/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failure modes. Callers that gate requests collapse both
// into "no identity"; they stay distinct here so tests and logs can tell
// them apart.
var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("malformed token")
)

// Claims holds the JWT payload fields. TokenVersion is a snapshot of the
// account's revocation counter at issuance time; a token is only valid
// while the two still match.
type Claims struct {
	UserID       string `json:"user_id"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a shared symmetric secret.
// It holds no other state and never consults the user store.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("signing key not configured: JWT_SECRET is empty")
	}
	expiry := cfg.JWTExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Provider{secret: []byte(cfg.JWTSecret), expiry: expiry}, nil
}

func (p *Provider) Sign(userID string, tokenVersion int) (string, error) {
	claims := Claims{
		UserID:       userID,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", ErrMalformed)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrMalformed)
	}
	return claims, nil
}
