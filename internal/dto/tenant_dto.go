package dto

import "time"

type UpsertTenantRequest struct {
	ID                 string   `json:"id" validate:"required,min=1,max=100"`
	Name               string   `json:"name" validate:"required"`
	Tone               string   `json:"tone" validate:"omitempty,oneof=professional friendly casual formal"`
	Locale             string   `json:"locale" validate:"omitempty,min=2,max=10"`
	CustomInstructions string   `json:"custom_instructions"`
	Disclaimers        []string `json:"disclaimers"`
	EnabledTools       []string `json:"enabled_tools"`
	ForbiddenClaims    []string `json:"forbidden_claims"`

	RateLimitQuota      int `json:"rate_limit_quota" validate:"omitempty,min=1"`
	RateLimitWindowSecs int `json:"rate_limit_window_secs" validate:"omitempty,min=1"`

	MaxInputChars     int     `json:"max_input_chars" validate:"omitempty,min=1"`
	NonsenseThreshold float64 `json:"nonsense_threshold" validate:"omitempty,gt=0,lt=1"`

	MemoryMaxTurns     int `json:"memory_max_turns" validate:"omitempty,min=1"`
	MemorySessionHours int `json:"memory_session_hours" validate:"omitempty,min=1"`
}

type TenantDetail struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Tone               string   `json:"tone"`
	Locale             string   `json:"locale"`
	CustomInstructions string   `json:"custom_instructions,omitempty"`
	Disclaimers        []string `json:"disclaimers,omitempty"`
	EnabledTools       []string `json:"enabled_tools,omitempty"`
	ForbiddenClaims    []string `json:"forbidden_claims,omitempty"`

	RateLimitQuota      int `json:"rate_limit_quota"`
	RateLimitWindowSecs int `json:"rate_limit_window_secs"`

	MaxInputChars     int     `json:"max_input_chars"`
	NonsenseThreshold float64 `json:"nonsense_threshold"`

	MemoryMaxTurns     int `json:"memory_max_turns"`
	MemorySessionHours int `json:"memory_session_hours"`

	CreatedAt time.Time `json:"created_at"`
}
