package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByTenant filters rows by tenant_id.
type ByTenant struct {
	TenantID string
}

func (s ByTenant) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tenant_id = ?", s.TenantID)
}

// BySession filters turn rows by session_id.
type BySession struct {
	SessionID string
}

func (s BySession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByEventType filters webhook events by type.
type ByEventType struct {
	EventType string
}

func (s ByEventType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.EventType)
}

// ByEventID filters delivery attempts by the event they belong to.
type ByEventID struct {
	EventID uuid.UUID
}

func (s ByEventID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_id = ?", s.EventID)
}

// ByWebhookID filters delivery attempts by subscription.
type ByWebhookID struct {
	WebhookID uuid.UUID
}

func (s ByWebhookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("webhook_id = ?", s.WebhookID)
}

// Enabled filters subscriptions that are switched on.
type Enabled struct{}

func (s Enabled) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("enabled = ?", true)
}

// DocumentSearchQuery filters documents by title or content.
// Using ILIKE for Postgres (case insensitive).
type DocumentSearchQuery struct {
	Query string
}

func (s DocumentSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}
