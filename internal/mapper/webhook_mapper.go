package mapper

import (
	"encoding/json"
	"time"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WebhookMapper struct{}

func NewWebhookMapper() *WebhookMapper {
	return &WebhookMapper{}
}

func (m *WebhookMapper) SubscriptionToEntity(s *model.WebhookSubscription) *entity.WebhookSubscription {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		ts := s.UpdatedAt
		updatedAt = &ts
	}

	return &entity.WebhookSubscription{
		ID:         s.ID,
		TenantID:   s.TenantID,
		URL:        s.URL,
		Secret:     s.Secret,
		EventTypes: []string(s.EventTypes),
		Enabled:    s.Enabled,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		IsDeleted:  s.DeletedAt.Valid,
	}
}

func (m *WebhookMapper) SubscriptionToModel(s *entity.WebhookSubscription) *model.WebhookSubscription {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.WebhookSubscription{
		ID:         s.ID,
		TenantID:   s.TenantID,
		URL:        s.URL,
		Secret:     s.Secret,
		EventTypes: datatypes.NewJSONSlice(s.EventTypes),
		Enabled:    s.Enabled,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *WebhookMapper) SubscriptionsToEntities(subs []*model.WebhookSubscription) []*entity.WebhookSubscription {
	entities := make([]*entity.WebhookSubscription, len(subs))
	for i, s := range subs {
		entities[i] = m.SubscriptionToEntity(s)
	}
	return entities
}

func (m *WebhookMapper) EventToEntity(e *model.WebhookEvent) *entity.WebhookEvent {
	if e == nil {
		return nil
	}

	payload := map[string]interface{}{}
	if len(e.Payload) > 0 {
		_ = json.Unmarshal(e.Payload, &payload)
	}

	return &entity.WebhookEvent{
		ID:        e.ID,
		TenantID:  e.TenantID,
		EventType: e.EventType,
		Payload:   payload,
		CreatedAt: e.CreatedAt,
	}
}

func (m *WebhookMapper) EventToModel(e *entity.WebhookEvent) *model.WebhookEvent {
	if e == nil {
		return nil
	}

	raw, _ := json.Marshal(e.Payload)

	return &model.WebhookEvent{
		ID:        e.ID,
		TenantID:  e.TenantID,
		EventType: e.EventType,
		Payload:   datatypes.JSON(raw),
		CreatedAt: e.CreatedAt,
	}
}

func (m *WebhookMapper) AttemptToEntity(a *model.WebhookDeliveryAttempt) *entity.WebhookDeliveryAttempt {
	if a == nil {
		return nil
	}

	return &entity.WebhookDeliveryAttempt{
		ID:             a.ID,
		EventID:        a.EventID,
		WebhookID:      a.WebhookID,
		AttemptNumber:  a.AttemptNumber,
		Status:         a.Status,
		ScheduledAt:    a.ScheduledAt,
		ResponseStatus: a.ResponseStatus,
		LastError:      a.LastError,
		CompletedAt:    a.CompletedAt,
		CreatedAt:      a.CreatedAt,
	}
}

func (m *WebhookMapper) AttemptToModel(a *entity.WebhookDeliveryAttempt) *model.WebhookDeliveryAttempt {
	if a == nil {
		return nil
	}

	return &model.WebhookDeliveryAttempt{
		ID:             a.ID,
		EventID:        a.EventID,
		WebhookID:      a.WebhookID,
		AttemptNumber:  a.AttemptNumber,
		Status:         a.Status,
		ScheduledAt:    a.ScheduledAt,
		ResponseStatus: a.ResponseStatus,
		LastError:      a.LastError,
		CompletedAt:    a.CompletedAt,
		CreatedAt:      a.CreatedAt,
	}
}

func (m *WebhookMapper) AttemptsToEntities(attempts []*model.WebhookDeliveryAttempt) []*entity.WebhookDeliveryAttempt {
	entities := make([]*entity.WebhookDeliveryAttempt, len(attempts))
	for i, a := range attempts {
		entities[i] = m.AttemptToEntity(a)
	}
	return entities
}
