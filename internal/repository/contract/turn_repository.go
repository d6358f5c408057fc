package contract

import (
	"context"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/repository/specification"
)

type TurnRepository interface {
	Create(ctx context.Context, turn *entity.Turn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteBySession(ctx context.Context, tenantID, sessionID string) error
}
