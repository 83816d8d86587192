package domain

import "time"

// Message statuses. A message is built in StatusPending and transitions
// exactly once, when the single delivery attempt resolves, to one of the
// terminal statuses. Pending is never written to the store.
const (
	StatusPending   = "pending"
	StatusQueued    = "queued"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// IsDeliverySuccess reports whether the carrier returned one of the
// recognized success statuses. Anything else is a delivery failure.
func IsDeliverySuccess(status string) bool {
	switch status {
	case StatusQueued, StatusSent, StatusDelivered:
		return true
	}
	return false
}

type Message struct {
	MessageID   string    `json:"id" dynamodbav:"message_id"`
	UserID      string    `json:"-" dynamodbav:"user_id" validate:"required"`
	To          string    `json:"phone_number" dynamodbav:"to" validate:"required,intlphone"`
	Body        string    `json:"body" dynamodbav:"body" validate:"required,max=1600"`
	Status      string    `json:"status" dynamodbav:"status"`
	ProviderSID *string   `json:"provider_sid" dynamodbav:"provider_sid"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateMessageRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}
