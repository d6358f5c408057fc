package mapper

import (
	"time"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TenantMapper struct{}

func NewTenantMapper() *TenantMapper {
	return &TenantMapper{}
}

func (m *TenantMapper) ToEntity(t *model.Tenant) *entity.Tenant {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		ts := t.UpdatedAt
		updatedAt = &ts
	}

	return &entity.Tenant{
		ID:                  t.ID,
		Name:                t.Name,
		Tone:                t.Tone,
		Locale:              t.Locale,
		CustomInstructions:  t.CustomInstructions,
		Disclaimers:         []string(t.Disclaimers),
		EnabledTools:        []string(t.EnabledTools),
		ForbiddenClaims:     []string(t.ForbiddenClaims),
		RateLimitQuota:      t.RateLimitQuota,
		RateLimitWindowSecs: t.RateLimitWindowSecs,
		MaxInputChars:       t.MaxInputChars,
		NonsenseThreshold:   t.NonsenseThreshold,
		MemoryMaxTurns:      t.MemoryMaxTurns,
		MemorySessionHours:  t.MemorySessionHours,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           updatedAt,
		IsDeleted:           t.DeletedAt.Valid,
	}
}

func (m *TenantMapper) ToModel(t *entity.Tenant) *model.Tenant {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Tenant{
		ID:                  t.ID,
		Name:                t.Name,
		Tone:                t.Tone,
		Locale:              t.Locale,
		CustomInstructions:  t.CustomInstructions,
		Disclaimers:         datatypes.NewJSONSlice(t.Disclaimers),
		EnabledTools:        datatypes.NewJSONSlice(t.EnabledTools),
		ForbiddenClaims:     datatypes.NewJSONSlice(t.ForbiddenClaims),
		RateLimitQuota:      t.RateLimitQuota,
		RateLimitWindowSecs: t.RateLimitWindowSecs,
		MaxInputChars:       t.MaxInputChars,
		NonsenseThreshold:   t.NonsenseThreshold,
		MemoryMaxTurns:      t.MemoryMaxTurns,
		MemorySessionHours:  t.MemorySessionHours,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           updatedAt,
		DeletedAt:           deletedAt,
	}
}

func (m *TenantMapper) ToEntities(tenants []*model.Tenant) []*entity.Tenant {
	entities := make([]*entity.Tenant, len(tenants))
	for i, t := range tenants {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
