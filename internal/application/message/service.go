package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sms-relay/internal/domain"
	"github.com/go-sms-relay/internal/infrastructure/sns"
	"github.com/go-sms-relay/internal/pkg/id"
	"github.com/go-sms-relay/internal/pkg/validate"
)

type Service interface {
	// Send runs the full dispatch: validate the candidate record, make the
	// single synchronous carrier attempt, then persist the resolved record
	// exactly once. On a delivery failure the returned message is the
	// persisted failed record and the error wraps domain.ErrDeliveryFailed.
	Send(ctx context.Context, userID string, req domain.CreateMessageRequest) (*domain.Message, error)
	// ListForUser returns the target account's messages newest-first. The
	// target must exist and must be the caller.
	ListForUser(ctx context.Context, callerID, targetID string) ([]domain.Message, error)
}

type messageStore interface {
	Put(ctx context.Context, m *domain.Message) error
	ListByUser(ctx context.Context, userID string) ([]domain.Message, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	repo     messageStore
	userRepo userStore
	gateway  sns.Gateway
}

func NewService(repo messageStore, userRepo userStore, gateway sns.Gateway) Service {
	return &service{repo: repo, userRepo: userRepo, gateway: gateway}
}

func (s *service) Send(ctx context.Context, userID string, req domain.CreateMessageRequest) (*domain.Message, error) {
	now := time.Now().UTC()
	m := &domain.Message{
		MessageID: id.New(),
		UserID:    userID,
		To:        req.To,
		Body:      req.Body,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Validate before the carrier call so the store never holds a message
	// that failed local validation.
	if viol := validate.Violations(m); viol != nil {
		return nil, &domain.ValidationError{Violations: viol}
	}

	slog.Info("sending sms", "user_id", userID, "message_id", m.MessageID, "to", m.To)
	res, err := s.gateway.Send(ctx, m.To, m.Body)
	switch {
	case err == nil && domain.IsDeliverySuccess(res.Status):
		m.Status = res.Status
		m.ProviderSID = res.SID
		slog.Info("sms accepted by carrier", "user_id", userID, "message_id", m.MessageID, "status", m.Status)
	case err == nil:
		slog.Error("carrier returned unrecognized status", "user_id", userID, "message_id", m.MessageID, "status", res.Status)
		m.Status = domain.StatusFailed
		m.ProviderSID = nil
	case errors.Is(err, domain.ErrConfiguration):
		slog.Error("sms gateway not configured", "user_id", userID, "message_id", m.MessageID, "err", err)
		m.Status = domain.StatusFailed
		m.ProviderSID = nil
	default:
		slog.Error("sms delivery failed", "user_id", userID, "message_id", m.MessageID, "err", err)
		m.Status = domain.StatusFailed
		m.ProviderSID = nil
	}
	m.UpdatedAt = time.Now().UTC()

	if perr := s.repo.Put(ctx, m); perr != nil {
		if m.Status == domain.StatusFailed {
			// Nested failure: the delivery failed and the failed record
			// could not be persisted either.
			slog.Error("failed to save failed message", "user_id", userID, "message_id", m.MessageID, "err", perr)
			return nil, &domain.ValidationError{Violations: []string{"Message could not be saved"}}
		}
		return nil, fmt.Errorf("save message %s: %w", m.MessageID, perr)
	}

	if m.Status == domain.StatusFailed {
		return m, fmt.Errorf("message %s saved but not sent: %w", m.MessageID, domain.ErrDeliveryFailed)
	}
	return m, nil
}

func (s *service) ListForUser(ctx context.Context, callerID, targetID string) ([]domain.Message, error) {
	// Existence is checked before ownership so an unknown account is 404,
	// not 403.
	if _, err := s.userRepo.Get(ctx, targetID); err != nil {
		return nil, err
	}
	if callerID != targetID {
		return nil, fmt.Errorf("messages of user %s: %w", targetID, domain.ErrForbidden)
	}
	return s.repo.ListByUser(ctx, targetID)
}
