package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tenant holds the per-tenant policy configuration. The pipeline never reads
// this row directly; it works on immutable snapshots loaded by the tenant
// service, so a config edit mid-request can't produce torn reads.
type Tenant struct {
	ID                 string                      `gorm:"type:varchar(100);primaryKey"`
	Name               string                      `gorm:"type:varchar(255);not null"`
	Tone               string                      `gorm:"type:varchar(50);not null;default:'professional'"`
	Locale             string                      `gorm:"type:varchar(10);not null;default:'en'"`
	CustomInstructions string                      `gorm:"type:text"`
	Disclaimers        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	EnabledTools       datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ForbiddenClaims    datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	// Rate limiting (fixed window per session)
	RateLimitQuota      int `gorm:"default:60"`
	RateLimitWindowSecs int `gorm:"default:60"`

	// Guardrails
	MaxInputChars     int     `gorm:"default:2000"`
	NonsenseThreshold float64 `gorm:"default:0.2"`

	// Memory
	MemoryMaxTurns     int `gorm:"default:8"`
	MemorySessionHours int `gorm:"default:168"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Tenant) TableName() string {
	return "tenants"
}
