package memory

import (
	"time"

	"ai-agent-gateway-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// TenantCache holds resolved tenant snapshots so the hot path does not
// hit Postgres on every message. Entries expire on their own; explicit
// invalidation happens on config writes.
type TenantCache struct {
	cache *cache.Cache
}

func NewTenantCache() *TenantCache {
	// Snapshots refresh at least every 5 minutes even without an
	// explicit invalidation, purge sweep every minute
	c := cache.New(5*time.Minute, 1*time.Minute)
	return &TenantCache{cache: c}
}

func (r *TenantCache) Save(tenant *entity.Tenant) {
	r.cache.Set(tenant.ID, tenant, cache.DefaultExpiration)
}

func (r *TenantCache) Get(tenantID string) (*entity.Tenant, bool) {
	if x, found := r.cache.Get(tenantID); found {
		return x.(*entity.Tenant), true
	}
	return nil, false
}

func (r *TenantCache) Delete(tenantID string) {
	r.cache.Delete(tenantID)
}
