package contract

import (
	"context"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/repository/specification"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	Update(ctx context.Context, tenant *entity.Tenant) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*entity.Tenant, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tenant, error)
}
