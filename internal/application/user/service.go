package user

import (
	"context"
	"errors"
	"time"

	"github.com/go-sms-relay/internal/domain"
	"github.com/go-sms-relay/internal/pkg/id"
	"github.com/go-sms-relay/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Register creates an account and returns it with a freshly issued
	// bearer token, so the caller is authenticated immediately.
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, string, error)
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
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

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, string, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if viol := validate.Violations(req); viol != nil {
		return nil, "", &domain.ValidationError{Violations: viol}
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, "", &domain.ValidationError{Violations: []string{"Email has already been taken"}}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		TokenVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, "", err
	}
	token, err := s.signer.Sign(u.UserID, u.TokenVersion)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
