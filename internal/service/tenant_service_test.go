package service

import (
	"context"
	"sync"
	"testing"

	"ai-agent-gateway-be/internal/dto"
	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/repository/memory"
	"ai-agent-gateway-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[string]*entity.Tenant
	finds   int
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[string]*entity.Tenant{}}
}

func (r *fakeTenantRepo) Create(_ context.Context, tenant *entity.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tenant
	r.tenants[tenant.ID] = &cp
	return nil
}

func (r *fakeTenantRepo) Update(ctx context.Context, tenant *entity.Tenant) error {
	return r.Create(ctx, tenant)
}

func (r *fakeTenantRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tenants, id)
	return nil
}

func (r *fakeTenantRepo) FindByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if t, ok := r.tenants[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeTenantRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Tenant, error) {
	return nil, nil
}

func (r *fakeTenantRepo) findCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finds
}

func TestUpsertAppliesDefaults(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewTenantService(repo, memory.NewTenantCache(), nopLogger{})

	detail, err := svc.Upsert(context.Background(), &dto.UpsertTenantRequest{
		ID:   "acme",
		Name: "Acme Dental",
	})
	require.NoError(t, err)

	assert.Equal(t, "professional", detail.Tone)
	assert.Equal(t, "en", detail.Locale)
	assert.Equal(t, 60, detail.RateLimitQuota)
	assert.Equal(t, 60, detail.RateLimitWindowSecs)
	assert.Equal(t, 2000, detail.MaxInputChars)
	assert.InDelta(t, 0.2, detail.NonsenseThreshold, 0.001)
	assert.Equal(t, 8, detail.MemoryMaxTurns)
	assert.Equal(t, 168, detail.MemorySessionHours)
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewTenantService(repo, memory.NewTenantCache(), nopLogger{})

	first, err := svc.Upsert(context.Background(), &dto.UpsertTenantRequest{ID: "acme", Name: "Acme"})
	require.NoError(t, err)

	second, err := svc.Upsert(context.Background(), &dto.UpsertTenantRequest{ID: "acme", Name: "Acme Dental"})
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Acme Dental", second.Name)
}

func TestResolveCachesSnapshot(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewTenantService(repo, memory.NewTenantCache(), nopLogger{})

	_, err := svc.Upsert(context.Background(), &dto.UpsertTenantRequest{ID: "acme", Name: "Acme"})
	require.NoError(t, err)
	baseline := repo.findCalls()

	for i := 0; i < 3; i++ {
		tenant, err := svc.Resolve(context.Background(), "acme")
		require.NoError(t, err)
		require.NotNil(t, tenant)
	}

	// Only the first Resolve goes to the repository.
	assert.Equal(t, baseline+1, repo.findCalls())
}

func TestResolveUnknownTenant(t *testing.T) {
	svc := NewTenantService(newFakeTenantRepo(), memory.NewTenantCache(), nopLogger{})

	tenant, err := svc.Resolve(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, tenant)
}

func TestUpsertInvalidatesCache(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewTenantService(repo, memory.NewTenantCache(), nopLogger{})

	_, err := svc.Upsert(context.Background(), &dto.UpsertTenantRequest{ID: "acme", Name: "Acme"})
	require.NoError(t, err)

	tenant, err := svc.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", tenant.Name)

	_, err = svc.Upsert(context.Background(), &dto.UpsertTenantRequest{ID: "acme", Name: "Acme Dental"})
	require.NoError(t, err)

	tenant, err = svc.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Dental", tenant.Name)
}
