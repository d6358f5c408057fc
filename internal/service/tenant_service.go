// FILE: internal/service/tenant_service.go
package service

import (
	"context"
	"time"

	"ai-agent-gateway-be/internal/dto"
	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/pkg/logger"
	"ai-agent-gateway-be/internal/pkg/serverutils"
	"ai-agent-gateway-be/internal/repository/contract"
	"ai-agent-gateway-be/internal/repository/memory"
)

type ITenantService interface {
	Upsert(ctx context.Context, req *dto.UpsertTenantRequest) (*dto.TenantDetail, error)
	Get(ctx context.Context, tenantID string) (*dto.TenantDetail, error)
	// Resolve returns the cached tenant snapshot for the hot path, or
	// nil when the tenant does not exist.
	Resolve(ctx context.Context, tenantID string) (*entity.Tenant, error)
	// Reload drops the cached snapshot so the next request sees fresh
	// configuration.
	Reload(tenantID string)
}

type tenantService struct {
	repo   contract.TenantRepository
	cache  *memory.TenantCache
	logger logger.ILogger
}

func NewTenantService(repo contract.TenantRepository, cache *memory.TenantCache, log logger.ILogger) ITenantService {
	return &tenantService{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (s *tenantService) Upsert(ctx context.Context, req *dto.UpsertTenantRequest) (*dto.TenantDetail, error) {
	existing, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	tenant := applyDefaults(req)
	if existing != nil {
		tenant.CreatedAt = existing.CreatedAt
		if err := s.repo.Update(ctx, tenant); err != nil {
			return nil, err
		}
	} else {
		tenant.CreatedAt = time.Now()
		if err := s.repo.Create(ctx, tenant); err != nil {
			return nil, err
		}
	}

	// Writes invalidate rather than refresh, so a concurrent request
	// never caches a half-applied config.
	s.cache.Delete(tenant.ID)

	s.logger.Info("Tenant", "Tenant configuration saved", map[string]interface{}{
		"tenant_id": tenant.ID,
	})
	return toTenantDetail(tenant), nil
}

func (s *tenantService) Get(ctx context.Context, tenantID string) (*dto.TenantDetail, error) {
	tenant, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, serverutils.NewTenantNotFoundError(tenantID)
	}
	return toTenantDetail(tenant), nil
}

func (s *tenantService) Resolve(ctx context.Context, tenantID string) (*entity.Tenant, error) {
	if tenant, ok := s.cache.Get(tenantID); ok {
		return tenant, nil
	}

	tenant, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil
	}

	s.cache.Save(tenant)
	return tenant, nil
}

func (s *tenantService) Reload(tenantID string) {
	s.cache.Delete(tenantID)
}

func applyDefaults(req *dto.UpsertTenantRequest) *entity.Tenant {
	tenant := &entity.Tenant{
		ID:                  req.ID,
		Name:                req.Name,
		Tone:                req.Tone,
		Locale:              req.Locale,
		CustomInstructions:  req.CustomInstructions,
		Disclaimers:         req.Disclaimers,
		EnabledTools:        req.EnabledTools,
		ForbiddenClaims:     req.ForbiddenClaims,
		RateLimitQuota:      req.RateLimitQuota,
		RateLimitWindowSecs: req.RateLimitWindowSecs,
		MaxInputChars:       req.MaxInputChars,
		NonsenseThreshold:   req.NonsenseThreshold,
		MemoryMaxTurns:      req.MemoryMaxTurns,
		MemorySessionHours:  req.MemorySessionHours,
	}

	if tenant.Tone == "" {
		tenant.Tone = "professional"
	}
	if tenant.Locale == "" {
		tenant.Locale = "en"
	}
	if tenant.RateLimitQuota <= 0 {
		tenant.RateLimitQuota = 60
	}
	if tenant.RateLimitWindowSecs <= 0 {
		tenant.RateLimitWindowSecs = 60
	}
	if tenant.MaxInputChars <= 0 {
		tenant.MaxInputChars = 2000
	}
	if tenant.NonsenseThreshold <= 0 {
		tenant.NonsenseThreshold = 0.2
	}
	if tenant.MemoryMaxTurns <= 0 {
		tenant.MemoryMaxTurns = 8
	}
	if tenant.MemorySessionHours <= 0 {
		tenant.MemorySessionHours = 168
	}
	return tenant
}

func toTenantDetail(tenant *entity.Tenant) *dto.TenantDetail {
	return &dto.TenantDetail{
		ID:                  tenant.ID,
		Name:                tenant.Name,
		Tone:                tenant.Tone,
		Locale:              tenant.Locale,
		CustomInstructions:  tenant.CustomInstructions,
		Disclaimers:         tenant.Disclaimers,
		EnabledTools:        tenant.EnabledTools,
		ForbiddenClaims:     tenant.ForbiddenClaims,
		RateLimitQuota:      tenant.RateLimitQuota,
		RateLimitWindowSecs: tenant.RateLimitWindowSecs,
		MaxInputChars:       tenant.MaxInputChars,
		NonsenseThreshold:   tenant.NonsenseThreshold,
		MemoryMaxTurns:      tenant.MemoryMaxTurns,
		MemorySessionHours:  tenant.MemorySessionHours,
		CreatedAt:           tenant.CreatedAt,
	}
}
