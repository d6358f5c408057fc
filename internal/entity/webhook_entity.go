package entity

import (
	"time"

	"github.com/google/uuid"
)

// Delivery attempt statuses. Delivered and abandoned are terminal.
const (
	AttemptStatusPending   = "pending"
	AttemptStatusDelivered = "delivered"
	AttemptStatusFailed    = "failed"
	AttemptStatusAbandoned = "abandoned"
)

type WebhookSubscription struct {
	ID         uuid.UUID
	TenantID   string
	URL        string
	Secret     string
	EventTypes []string
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	IsDeleted  bool
}

// Matches reports whether the subscription wants the given event type.
// A "*" entry subscribes to everything.
func (s *WebhookSubscription) Matches(eventType string) bool {
	for _, t := range s.EventTypes {
		if t == "*" || t == eventType {
			return true
		}
	}
	return false
}

type WebhookEvent struct {
	ID        uuid.UUID
	TenantID  string
	EventType string
	Payload   map[string]interface{}
	CreatedAt time.Time
}

type WebhookDeliveryAttempt struct {
	ID             uint
	EventID        uuid.UUID
	WebhookID      uuid.UUID
	AttemptNumber  int
	Status         string
	ScheduledAt    time.Time
	ResponseStatus int
	LastError      string
	CompletedAt    *time.Time
	CreatedAt      time.Time
}

// Terminal reports whether the attempt reached a final state.
func (a *WebhookDeliveryAttempt) Terminal() bool {
	return a.Status == AttemptStatusDelivered || a.Status == AttemptStatusAbandoned
}
