package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/pkg/logger"
	"ai-agent-gateway-be/internal/repository/contract"
	"ai-agent-gateway-be/internal/repository/specification"
	"ai-agent-gateway-be/pkg/events"
	"ai-agent-gateway-be/pkg/queue"

	"github.com/google/uuid"
)

// TopicDelivery is the queue topic carrying delivery wake-up tasks.
const TopicDelivery = "deliveries.webhook"

// deliveryTask identifies one (event, subscription) pair. The attempt
// state lives in the database; the task only tells a worker to look.
type deliveryTask struct {
	EventID   uuid.UUID `json:"event_id"`
	WebhookID uuid.UUID `json:"webhook_id"`
}

// Dispatcher fans pipeline events out to matching subscriptions. It
// persists the event and the first attempt row for each match, then
// publishes one task per pair.
type Dispatcher struct {
	repo   contract.WebhookRepository
	pub    queue.Publisher
	logger logger.ILogger
}

func NewDispatcher(repo contract.WebhookRepository, pub queue.Publisher, log logger.ILogger) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		pub:    pub,
		logger: log,
	}
}

// EnqueueEvent records ev for the tenant and schedules a delivery to every
// enabled subscription whose event type filter matches. Returns the stored
// event ID, or uuid.Nil when no subscription matched.
func (d *Dispatcher) EnqueueEvent(ctx context.Context, tenantID string, ev events.Event) (uuid.UUID, error) {
	subs, err := d.repo.FindSubscriptions(ctx,
		specification.ByTenant{TenantID: tenantID},
		specification.Enabled{},
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	matched := make([]*entity.WebhookSubscription, 0, len(subs))
	for _, sub := range subs {
		if sub.Matches(ev.EventType()) {
			matched = append(matched, sub)
		}
	}
	if len(matched) == 0 {
		return uuid.Nil, nil
	}

	event := &entity.WebhookEvent{
		ID:        uuid.New(),
		TenantID:  tenantID,
		EventType: ev.EventType(),
		Payload:   ev.Payload(),
		CreatedAt: ev.Timestamp(),
	}
	if err := d.repo.CreateEvent(ctx, event); err != nil {
		return uuid.Nil, fmt.Errorf("failed to persist event: %w", err)
	}

	for _, sub := range matched {
		attempt := &entity.WebhookDeliveryAttempt{
			EventID:       event.ID,
			WebhookID:     sub.ID,
			AttemptNumber: 1,
			Status:        entity.AttemptStatusPending,
			ScheduledAt:   time.Now(),
		}
		if err := d.repo.CreateAttempt(ctx, attempt); err != nil {
			d.logger.Error("webhook", "Failed to create delivery attempt", map[string]interface{}{
				"event_id":   event.ID.String(),
				"webhook_id": sub.ID.String(),
				"error":      err.Error(),
			})
			continue
		}

		task, _ := json.Marshal(deliveryTask{EventID: event.ID, WebhookID: sub.ID})
		if err := d.pub.Publish(ctx, TopicDelivery, task); err != nil {
			// The pending attempt row stays behind as evidence; delivery
			// for this pair stalls until something republishes.
			d.logger.Error("webhook", "Failed to publish delivery task", map[string]interface{}{
				"event_id":   event.ID.String(),
				"webhook_id": sub.ID.String(),
				"error":      err.Error(),
			})
		}
	}

	return event.ID, nil
}

// EnqueueTest sends a test_ping event to one subscription, bypassing the
// event type filter so operators can verify an endpoint before enabling
// real traffic on it.
func (d *Dispatcher) EnqueueTest(ctx context.Context, sub *entity.WebhookSubscription) (uuid.UUID, error) {
	event := &entity.WebhookEvent{
		ID:        uuid.New(),
		TenantID:  sub.TenantID,
		EventType: events.TypeTestPing,
		Payload: map[string]interface{}{
			"webhook_id": sub.ID.String(),
		},
		CreatedAt: time.Now(),
	}
	if err := d.repo.CreateEvent(ctx, event); err != nil {
		return uuid.Nil, fmt.Errorf("failed to persist test event: %w", err)
	}

	attempt := &entity.WebhookDeliveryAttempt{
		EventID:       event.ID,
		WebhookID:     sub.ID,
		AttemptNumber: 1,
		Status:        entity.AttemptStatusPending,
		ScheduledAt:   time.Now(),
	}
	if err := d.repo.CreateAttempt(ctx, attempt); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create delivery attempt: %w", err)
	}

	task, _ := json.Marshal(deliveryTask{EventID: event.ID, WebhookID: sub.ID})
	if err := d.pub.Publish(ctx, TopicDelivery, task); err != nil {
		return uuid.Nil, fmt.Errorf("failed to publish delivery task: %w", err)
	}

	return event.ID, nil
}
