package contract

import (
	"context"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WebhookRepository interface {
	CreateSubscription(ctx context.Context, sub *entity.WebhookSubscription) error
	UpdateSubscription(ctx context.Context, sub *entity.WebhookSubscription) error
	DeleteSubscription(ctx context.Context, tenantID string, id uuid.UUID) error
	FindSubscription(ctx context.Context, tenantID string, id uuid.UUID) (*entity.WebhookSubscription, error)
	FindSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.WebhookSubscription, error)

	CreateEvent(ctx context.Context, event *entity.WebhookEvent) error
	FindEvent(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error)

	CreateAttempt(ctx context.Context, attempt *entity.WebhookDeliveryAttempt) error
	UpdateAttempt(ctx context.Context, attempt *entity.WebhookDeliveryAttempt) error
	// LatestAttempt returns the highest-numbered attempt for the pair,
	// or nil when none exists.
	LatestAttempt(ctx context.Context, eventID, webhookID uuid.UUID) (*entity.WebhookDeliveryAttempt, error)
	FindAttempts(ctx context.Context, specs ...specification.Specification) ([]*entity.WebhookDeliveryAttempt, error)
}
