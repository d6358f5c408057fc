package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/pkg/logger"
	"ai-agent-gateway-be/internal/repository/contract"
	"ai-agent-gateway-be/pkg/queue"

	"github.com/google/uuid"
)

const durableName = "webhook-delivery"

type WorkerConfig struct {
	MaxAttempts    int
	MaxElapsed     time.Duration
	RequestTimeout time.Duration
	Concurrency    int
	Backoff        Backoff
}

func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxAttempts:    5,
		MaxElapsed:     30 * time.Minute,
		RequestTimeout: 10 * time.Second,
		Concurrency:    4,
		Backoff:        DefaultBackoff,
	}
}

// Worker consumes delivery tasks and drives each (event, subscription)
// pair through its attempt rows. The queue message is only a wake-up; on
// redelivery the worker re-reads the rows, which makes processing
// idempotent and restart safe. Only one task per pair is in flight, so
// attempts for a pair never race each other.
type Worker struct {
	repo   contract.WebhookRepository
	sub    queue.Subscriber
	client *http.Client
	cfg    WorkerConfig
	sem    chan struct{}
	logger logger.ILogger
	now    func() time.Time
}

func NewWorker(repo contract.WebhookRepository, sub queue.Subscriber, cfg WorkerConfig, log logger.ILogger) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.Backoff.Initial <= 0 {
		cfg.Backoff = DefaultBackoff
	}

	return &Worker{
		repo:   repo,
		sub:    sub,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:    cfg,
		sem:    make(chan struct{}, cfg.Concurrency),
		logger: log,
		now:    time.Now,
	}
}

// Start registers the durable consumer. It returns once consuming begins.
func (w *Worker) Start() error {
	return w.sub.Subscribe(TopicDelivery, durableName, w.handle)
}

func (w *Worker) handle(ctx context.Context, payload []byte) error {
	var task deliveryTask
	if err := json.Unmarshal(payload, &task); err != nil {
		w.logger.Error("webhook", "Dropping malformed delivery task", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	w.sem <- struct{}{}
	defer func() { <-w.sem }()

	attempt, err := w.repo.LatestAttempt(ctx, task.EventID, task.WebhookID)
	if err != nil {
		return fmt.Errorf("failed to load attempt: %w", err)
	}
	if attempt == nil {
		w.logger.Warn("webhook", "Delivery task without attempt row", map[string]interface{}{
			"event_id":   task.EventID.String(),
			"webhook_id": task.WebhookID.String(),
		})
		return nil
	}
	if attempt.Terminal() {
		return nil
	}

	// Redelivered early, e.g. after a worker crash mid-backoff.
	if wait := attempt.ScheduledAt.Sub(w.now()); wait > time.Second {
		return queue.Retry(wait, nil)
	}

	event, err := w.repo.FindEvent(ctx, task.EventID)
	if err != nil {
		return fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return w.abandon(ctx, attempt, 0, "event no longer exists")
	}

	sub, err := w.repo.FindSubscription(ctx, event.TenantID, task.WebhookID)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil || !sub.Enabled || sub.IsDeleted {
		return w.abandon(ctx, attempt, 0, "subscription removed or disabled")
	}

	status, deliverErr := w.deliver(ctx, sub, event)
	if deliverErr == nil {
		now := w.now()
		attempt.Status = entity.AttemptStatusDelivered
		attempt.ResponseStatus = status
		attempt.CompletedAt = &now
		if err := w.repo.UpdateAttempt(ctx, attempt); err != nil {
			return fmt.Errorf("failed to record delivery: %w", err)
		}
		w.logger.Info("webhook", "Delivered event", map[string]interface{}{
			"event_id":   event.ID.String(),
			"webhook_id": sub.ID.String(),
			"attempt":    attempt.AttemptNumber,
			"status":     status,
		})
		return nil
	}

	exhausted := attempt.AttemptNumber >= w.cfg.MaxAttempts ||
		(w.cfg.MaxElapsed > 0 && w.now().Sub(event.CreatedAt) > w.cfg.MaxElapsed)
	if exhausted {
		return w.abandon(ctx, attempt, status, deliverErr.Error())
	}

	now := w.now()
	attempt.Status = entity.AttemptStatusFailed
	attempt.ResponseStatus = status
	attempt.LastError = deliverErr.Error()
	attempt.CompletedAt = &now
	if err := w.repo.UpdateAttempt(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record failure: %w", err)
	}

	delay := w.cfg.Backoff.Delay(attempt.AttemptNumber)
	next := &entity.WebhookDeliveryAttempt{
		EventID:       attempt.EventID,
		WebhookID:     attempt.WebhookID,
		AttemptNumber: attempt.AttemptNumber + 1,
		Status:        entity.AttemptStatusPending,
		ScheduledAt:   now.Add(delay),
	}
	if err := w.repo.CreateAttempt(ctx, next); err != nil {
		return fmt.Errorf("failed to schedule retry: %w", err)
	}

	w.logger.Warn("webhook", "Delivery failed, retry scheduled", map[string]interface{}{
		"event_id":   event.ID.String(),
		"webhook_id": sub.ID.String(),
		"attempt":    attempt.AttemptNumber,
		"delay":      delay.String(),
		"error":      deliverErr.Error(),
	})
	return queue.Retry(delay, deliverErr)
}

// deliver posts the signed event body and returns the HTTP status. A
// non-2xx response is an error; the status is still returned for the
// attempt record.
func (w *Worker) deliver(ctx context.Context, sub *entity.WebhookSubscription, event *entity.WebhookEvent) (int, error) {
	body, err := json.Marshal(map[string]interface{}{
		"event_id":   event.ID.String(),
		"event_type": event.EventType,
		"tenant_id":  event.TenantID,
		"timestamp":  event.CreatedAt.UTC().Format(time.RFC3339),
		"payload":    event.Payload,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal delivery body: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, w.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(sub.Secret, body))
	req.Header.Set("X-Webhook-Event", event.EventType)
	req.Header.Set("X-Webhook-Delivery", uuid.NewString())

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func (w *Worker) abandon(ctx context.Context, attempt *entity.WebhookDeliveryAttempt, status int, reason string) error {
	now := w.now()
	attempt.Status = entity.AttemptStatusAbandoned
	attempt.ResponseStatus = status
	attempt.LastError = reason
	attempt.CompletedAt = &now
	if err := w.repo.UpdateAttempt(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record abandonment: %w", err)
	}
	w.logger.Error("webhook", "Delivery abandoned", map[string]interface{}{
		"event_id":   attempt.EventID.String(),
		"webhook_id": attempt.WebhookID.String(),
		"attempt":    attempt.AttemptNumber,
		"reason":     reason,
	})
	return nil
}
