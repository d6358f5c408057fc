package implementation

import (
	"context"
	"errors"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/mapper"
	"ai-agent-gateway-be/internal/model"
	"ai-agent-gateway-be/internal/repository/contract"
	"ai-agent-gateway-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WebhookRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WebhookMapper
}

func NewWebhookRepository(db *gorm.DB) contract.WebhookRepository {
	return &WebhookRepositoryImpl{
		db:     db,
		mapper: mapper.NewWebhookMapper(),
	}
}

func (r *WebhookRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WebhookRepositoryImpl) CreateSubscription(ctx context.Context, sub *entity.WebhookSubscription) error {
	m := r.mapper.SubscriptionToModel(sub)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.SubscriptionToEntity(m)
	return nil
}

func (r *WebhookRepositoryImpl) UpdateSubscription(ctx context.Context, sub *entity.WebhookSubscription) error {
	m := r.mapper.SubscriptionToModel(sub)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.SubscriptionToEntity(m)
	return nil
}

func (r *WebhookRepositoryImpl) DeleteSubscription(ctx context.Context, tenantID string, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&model.WebhookSubscription{}, id).Error
}

func (r *WebhookRepositoryImpl) FindSubscription(ctx context.Context, tenantID string, id uuid.UUID) (*entity.WebhookSubscription, error) {
	var m model.WebhookSubscription
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SubscriptionToEntity(&m), nil
}

func (r *WebhookRepositoryImpl) FindSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.WebhookSubscription, error) {
	var models []*model.WebhookSubscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.SubscriptionsToEntities(models), nil
}

func (r *WebhookRepositoryImpl) CreateEvent(ctx context.Context, event *entity.WebhookEvent) error {
	m := r.mapper.EventToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.EventToEntity(m)
	return nil
}

func (r *WebhookRepositoryImpl) FindEvent(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
	var m model.WebhookEvent
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EventToEntity(&m), nil
}

func (r *WebhookRepositoryImpl) CreateAttempt(ctx context.Context, attempt *entity.WebhookDeliveryAttempt) error {
	m := r.mapper.AttemptToModel(attempt)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*attempt = *r.mapper.AttemptToEntity(m)
	return nil
}

func (r *WebhookRepositoryImpl) UpdateAttempt(ctx context.Context, attempt *entity.WebhookDeliveryAttempt) error {
	m := r.mapper.AttemptToModel(attempt)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*attempt = *r.mapper.AttemptToEntity(m)
	return nil
}

func (r *WebhookRepositoryImpl) LatestAttempt(ctx context.Context, eventID, webhookID uuid.UUID) (*entity.WebhookDeliveryAttempt, error) {
	var m model.WebhookDeliveryAttempt
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND webhook_id = ?", eventID, webhookID).
		Order("attempt_number DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AttemptToEntity(&m), nil
}

func (r *WebhookRepositoryImpl) FindAttempts(ctx context.Context, specs ...specification.Specification) ([]*entity.WebhookDeliveryAttempt, error) {
	var models []*model.WebhookDeliveryAttempt
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.AttemptsToEntities(models), nil
}
