package contract

import (
	"context"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
}
