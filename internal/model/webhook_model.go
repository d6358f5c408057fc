package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WebhookSubscription struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	TenantID   string                      `gorm:"type:varchar(100);index;not null"`
	URL        string                      `gorm:"type:varchar(2048);not null"`
	Secret     string                      `gorm:"type:varchar(255);not null"`
	EventTypes datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Enabled    bool                        `gorm:"default:true"`
	CreatedAt  time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt  time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt              `gorm:"index"`
}

func (WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}

type WebhookEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID  string         `gorm:"type:varchar(100);index;not null"`
	EventType string         `gorm:"type:varchar(100);not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}

// WebhookDeliveryAttempt is one row per try. The worker drives the state
// machine through these rows; the queue message is only a wake-up call, so
// a restart resumes from whatever the rows say.
type WebhookDeliveryAttempt struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	EventID        uuid.UUID `gorm:"type:uuid;index:idx_attempts_pair;not null"`
	WebhookID      uuid.UUID `gorm:"type:uuid;index:idx_attempts_pair;not null"`
	AttemptNumber  int       `gorm:"not null"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'"`
	ScheduledAt    time.Time `gorm:"not null"`
	ResponseStatus int
	LastError      string     `gorm:"type:text"`
	CompletedAt    *time.Time `gorm:""`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
}

func (WebhookDeliveryAttempt) TableName() string {
	return "webhook_delivery_attempts"
}
