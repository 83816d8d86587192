package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-sms-relay/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Login authenticates the credentials and returns the account with a
	// token carrying its current revocation counter. Unknown email and
	// wrong password are deliberately indistinguishable to the caller.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
	// Logout bumps the account's revocation counter, invalidating every
	// previously issued token for that account.
	Logout(ctx context.Context, userID string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
}

type tokenSigner interface {
	Sign(userID string, tokenVersion int) (string, error)
}

type service struct {
	repo   userStore
	signer tokenSigner
}

func NewService(repo userStore, signer tokenSigner) Service {
	return &service{repo: repo, signer: signer}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
		}
		// A store fault is not a credential failure; it must surface as a
		// server error, not a 401.
		slog.Error("login lookup failed", "err", err)
		return nil, "", fmt.Errorf("lookup account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	token, err := s.signer.Sign(u.UserID, u.TokenVersion)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Logout(ctx context.Context, userID string) error {
	if err := s.repo.IncrementTokenVersion(ctx, userID); err != nil {
		slog.Error("logout failed to bump token version", "user_id", userID, "err", err)
		return err
	}
	return nil
}
