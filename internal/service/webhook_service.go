// FILE: internal/service/webhook_service.go
package service

import (
	"context"
	"time"

	"ai-agent-gateway-be/internal/dto"
	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/pkg/logger"
	"ai-agent-gateway-be/internal/pkg/serverutils"
	"ai-agent-gateway-be/internal/repository/contract"
	"ai-agent-gateway-be/internal/repository/specification"
	"ai-agent-gateway-be/pkg/webhook"

	"github.com/google/uuid"
)

type IWebhookService interface {
	Create(ctx context.Context, tenantID string, req *dto.CreateWebhookRequest) (*dto.CreateWebhookResponse, error)
	Update(ctx context.Context, tenantID string, req *dto.UpdateWebhookRequest) (*dto.WebhookDetail, error)
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
	Get(ctx context.Context, tenantID string, id uuid.UUID) (*dto.WebhookDetail, error)
	List(ctx context.Context, tenantID string) ([]dto.WebhookDetail, error)
	GetEvent(ctx context.Context, tenantID string, eventID uuid.UUID) (*dto.WebhookEventDetail, error)
	SendTest(ctx context.Context, tenantID string, id uuid.UUID) (*dto.TestWebhookResponse, error)
}

type webhookService struct {
	repo       contract.WebhookRepository
	dispatcher *webhook.Dispatcher
	logger     logger.ILogger
}

func NewWebhookService(repo contract.WebhookRepository, dispatcher *webhook.Dispatcher, log logger.ILogger) IWebhookService {
	return &webhookService{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     log,
	}
}

func (s *webhookService) Create(ctx context.Context, tenantID string, req *dto.CreateWebhookRequest) (*dto.CreateWebhookResponse, error) {
	sub := &entity.WebhookSubscription{
		ID:         uuid.New(),
		TenantID:   tenantID,
		URL:        req.URL,
		Secret:     req.Secret,
		EventTypes: req.EventTypes,
		Enabled:    true,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("Webhook", "Subscription created", map[string]interface{}{
		"tenant_id":  tenantID,
		"webhook_id": sub.ID.String(),
		"url":        sub.URL,
	})
	return &dto.CreateWebhookResponse{ID: sub.ID}, nil
}

func (s *webhookService) Update(ctx context.Context, tenantID string, req *dto.UpdateWebhookRequest) (*dto.WebhookDetail, error) {
	sub, err := s.findOwned(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.URL != "" {
		sub.URL = req.URL
	}
	if len(req.EventTypes) > 0 {
		sub.EventTypes = req.EventTypes
	}
	if req.Enabled != nil {
		sub.Enabled = *req.Enabled
	}
	now := time.Now()
	sub.UpdatedAt = &now

	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	detail := toWebhookDetail(sub)
	return &detail, nil
}

func (s *webhookService) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.DeleteSubscription(ctx, tenantID, id)
}

func (s *webhookService) Get(ctx context.Context, tenantID string, id uuid.UUID) (*dto.WebhookDetail, error) {
	sub, err := s.findOwned(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	detail := toWebhookDetail(sub)
	return &detail, nil
}

func (s *webhookService) List(ctx context.Context, tenantID string) ([]dto.WebhookDetail, error) {
	subs, err := s.repo.FindSubscriptions(ctx, specification.ByTenant{TenantID: tenantID})
	if err != nil {
		return nil, err
	}

	details := make([]dto.WebhookDetail, 0, len(subs))
	for _, sub := range subs {
		details = append(details, toWebhookDetail(sub))
	}
	return details, nil
}

// GetEvent returns one stored event with its full attempt history, most
// useful when debugging an endpoint that keeps failing.
func (s *webhookService) GetEvent(ctx context.Context, tenantID string, eventID uuid.UUID) (*dto.WebhookEventDetail, error) {
	event, err := s.repo.FindEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil || event.TenantID != tenantID {
		return nil, serverutils.NewNotFoundError("event not found")
	}

	attempts, err := s.repo.FindAttempts(ctx,
		specification.ByEventID{EventID: eventID},
		specification.OrderBy{Field: "attempt_number"},
	)
	if err != nil {
		return nil, err
	}

	detail := &dto.WebhookEventDetail{
		ID:        event.ID,
		EventType: event.EventType,
		Payload:   event.Payload,
		CreatedAt: event.CreatedAt,
		Attempts:  make([]dto.WebhookAttemptDetail, 0, len(attempts)),
	}
	for _, a := range attempts {
		detail.Attempts = append(detail.Attempts, dto.WebhookAttemptDetail{
			EventID:        a.EventID,
			WebhookID:      a.WebhookID,
			AttemptNumber:  a.AttemptNumber,
			Status:         a.Status,
			ResponseStatus: a.ResponseStatus,
			LastError:      a.LastError,
			ScheduledAt:    a.ScheduledAt,
			CompletedAt:    a.CompletedAt,
		})
	}
	return detail, nil
}

func (s *webhookService) SendTest(ctx context.Context, tenantID string, id uuid.UUID) (*dto.TestWebhookResponse, error) {
	sub, err := s.findOwned(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	eventID, err := s.dispatcher.EnqueueTest(ctx, sub)
	if err != nil {
		return nil, err
	}
	return &dto.TestWebhookResponse{EventID: eventID}, nil
}

func (s *webhookService) findOwned(ctx context.Context, tenantID string, id uuid.UUID) (*entity.WebhookSubscription, error) {
	sub, err := s.repo.FindSubscription(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.IsDeleted {
		return nil, serverutils.NewNotFoundError("webhook not found")
	}
	return sub, nil
}

func toWebhookDetail(sub *entity.WebhookSubscription) dto.WebhookDetail {
	return dto.WebhookDetail{
		ID:         sub.ID,
		URL:        sub.URL,
		EventTypes: sub.EventTypes,
		Enabled:    sub.Enabled,
		CreatedAt:  sub.CreatedAt,
	}
}
