package entity

import (
	"time"
)

// Tenant is the domain view of a tenant's policy configuration.
type Tenant struct {
	ID                 string
	Name               string
	Tone               string
	Locale             string
	CustomInstructions string
	Disclaimers        []string
	EnabledTools       []string
	ForbiddenClaims    []string

	RateLimitQuota      int
	RateLimitWindowSecs int

	MaxInputChars     int
	NonsenseThreshold float64

	MemoryMaxTurns     int
	MemorySessionHours int

	CreatedAt time.Time
	UpdatedAt *time.Time
	IsDeleted bool
}
