package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWebhookRequest struct {
	URL        string   `json:"url" validate:"required,url"`
	Secret     string   `json:"secret" validate:"required,min=16"`
	EventTypes []string `json:"event_types" validate:"required,min=1,dive,min=1"`
}

type CreateWebhookResponse struct {
	ID uuid.UUID `json:"id"`
}

type WebhookDetail struct {
	ID         uuid.UUID `json:"id"`
	URL        string    `json:"url"`
	EventTypes []string  `json:"event_types"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

type UpdateWebhookRequest struct {
	ID         uuid.UUID
	URL        string   `json:"url" validate:"omitempty,url"`
	EventTypes []string `json:"event_types" validate:"omitempty,min=1,dive,min=1"`
	Enabled    *bool    `json:"enabled"`
}

type WebhookAttemptDetail struct {
	EventID        uuid.UUID  `json:"event_id"`
	WebhookID      uuid.UUID  `json:"webhook_id"`
	AttemptNumber  int        `json:"attempt_number"`
	Status         string     `json:"status"`
	ResponseStatus int        `json:"response_status,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

type WebhookEventDetail struct {
	ID        uuid.UUID              `json:"id"`
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
	Attempts  []WebhookAttemptDetail `json:"attempts"`
}

type TestWebhookResponse struct {
	EventID uuid.UUID `json:"event_id"`
}
