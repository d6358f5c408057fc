package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/repository/specification"
	"ai-agent-gateway-be/pkg/events"
	"ai-agent-gateway-be/pkg/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fakeRepo is an in-memory WebhookRepository. Spec filtering only covers
// the specifications the delivery path actually uses.
type fakeRepo struct {
	mu       sync.Mutex
	subs     map[uuid.UUID]*entity.WebhookSubscription
	evs      map[uuid.UUID]*entity.WebhookEvent
	attempts []*entity.WebhookDeliveryAttempt
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		subs: map[uuid.UUID]*entity.WebhookSubscription{},
		evs:  map[uuid.UUID]*entity.WebhookEvent{},
	}
}

func (f *fakeRepo) CreateSubscription(_ context.Context, sub *entity.WebhookSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sub
	f.subs[sub.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateSubscription(_ context.Context, sub *entity.WebhookSubscription) error {
	return f.CreateSubscription(nil, sub)
}

func (f *fakeRepo) DeleteSubscription(_ context.Context, tenantID string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub, ok := f.subs[id]; ok && sub.TenantID == tenantID {
		sub.IsDeleted = true
	}
	return nil
}

func (f *fakeRepo) FindSubscription(_ context.Context, tenantID string, id uuid.UUID) (*entity.WebhookSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[id]
	if !ok || sub.TenantID != tenantID || sub.IsDeleted {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeRepo) FindSubscriptions(_ context.Context, specs ...specification.Specification) ([]*entity.WebhookSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.WebhookSubscription
	for _, sub := range f.subs {
		if sub.IsDeleted || !matchesSubSpecs(sub, specs) {
			continue
		}
		cp := *sub
		out = append(out, &cp)
	}
	return out, nil
}

func matchesSubSpecs(sub *entity.WebhookSubscription, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByTenant:
			if sub.TenantID != s.TenantID {
				return false
			}
		case specification.Enabled:
			if !sub.Enabled {
				return false
			}
		}
	}
	return true
}

func (f *fakeRepo) CreateEvent(_ context.Context, event *entity.WebhookEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *event
	f.evs[event.ID] = &cp
	return nil
}

func (f *fakeRepo) FindEvent(_ context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.evs[id]
	if !ok {
		return nil, nil
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeRepo) CreateAttempt(_ context.Context, attempt *entity.WebhookDeliveryAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	attempt.ID = f.nextID
	cp := *attempt
	f.attempts = append(f.attempts, &cp)
	return nil
}

func (f *fakeRepo) UpdateAttempt(_ context.Context, attempt *entity.WebhookDeliveryAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.attempts {
		if a.ID == attempt.ID {
			cp := *attempt
			f.attempts[i] = &cp
			return nil
		}
	}
	return nil
}

func (f *fakeRepo) LatestAttempt(_ context.Context, eventID, webhookID uuid.UUID) (*entity.WebhookDeliveryAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *entity.WebhookDeliveryAttempt
	for _, a := range f.attempts {
		if a.EventID == eventID && a.WebhookID == webhookID {
			if latest == nil || a.AttemptNumber > latest.AttemptNumber {
				latest = a
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeRepo) FindAttempts(_ context.Context, specs ...specification.Specification) ([]*entity.WebhookDeliveryAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.WebhookDeliveryAttempt
	for _, a := range f.attempts {
		keep := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByEventID); ok && a.EventID != s.EventID {
				keep = false
			}
		}
		if keep {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) attemptsFor(eventID, webhookID uuid.UUID) []entity.WebhookDeliveryAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.WebhookDeliveryAttempt
	for _, a := range f.attempts {
		if a.EventID == eventID && a.WebhookID == webhookID {
			out = append(out, *a)
		}
	}
	return out
}

type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	tasks  [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.tasks = append(p.tasks, payload)
	return nil
}

func (p *capturePublisher) Close() {}

func addSubscription(t *testing.T, repo *fakeRepo, tenantID, url, secret string, eventTypes []string, enabled bool) uuid.UUID {
	t.Helper()
	sub := &entity.WebhookSubscription{
		ID:         uuid.New(),
		TenantID:   tenantID,
		URL:        url,
		Secret:     secret,
		EventTypes: eventTypes,
		Enabled:    enabled,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.CreateSubscription(context.Background(), sub))
	return sub.ID
}

func TestDispatcherFansOutToMatchingSubscriptions(t *testing.T) {
	repo := newFakeRepo()
	pub := &capturePublisher{}
	d := NewDispatcher(repo, pub, nopLogger{})

	wildcard := addSubscription(t, repo, "acme", "http://a.example", "s1", []string{"*"}, true)
	exact := addSubscription(t, repo, "acme", "http://b.example", "s2", []string{"message_processed"}, true)
	addSubscription(t, repo, "acme", "http://c.example", "s3", []string{"error_occurred"}, true)
	addSubscription(t, repo, "acme", "http://d.example", "s4", []string{"*"}, false)
	addSubscription(t, repo, "other", "http://e.example", "s5", []string{"*"}, true)

	ev := events.NewMessageProcessed("acme", "sess-1", 1, "hello", 12)
	eventID, err := d.EnqueueEvent(context.Background(), "acme", ev)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, eventID)

	stored, err := repo.FindEvent(context.Background(), eventID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "message_processed", stored.EventType)

	assert.Len(t, repo.attemptsFor(eventID, wildcard), 1)
	assert.Len(t, repo.attemptsFor(eventID, exact), 1)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.tasks, 2)
	for _, topic := range pub.topics {
		assert.Equal(t, TopicDelivery, topic)
	}
}

func TestDispatcherSkipsWhenNothingMatches(t *testing.T) {
	repo := newFakeRepo()
	pub := &capturePublisher{}
	d := NewDispatcher(repo, pub, nopLogger{})

	addSubscription(t, repo, "acme", "http://a.example", "s1", []string{"error_occurred"}, true)

	eventID, err := d.EnqueueEvent(context.Background(), "acme",
		events.NewMessageProcessed("acme", "sess-1", 1, "hello", 12))
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, eventID)
	assert.Empty(t, repo.evs)
	assert.Empty(t, pub.tasks)
}

func testWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxAttempts:    5,
		MaxElapsed:     time.Minute,
		RequestTimeout: 2 * time.Second,
		Concurrency:    2,
		Backoff:        Backoff{Initial: 10 * time.Millisecond, Max: 50 * time.Millisecond},
	}
}

func TestWorkerDeliversSignedEvent(t *testing.T) {
	var mu sync.Mutex
	var gotBody []byte
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotBody = body
		gotSig = r.Header.Get(SignatureHeader)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := newFakeRepo()
	q := queue.NewGoChannelQueue()
	defer q.Close()

	worker := NewWorker(repo, q, testWorkerConfig(), nopLogger{})
	require.NoError(t, worker.Start())

	subID := addSubscription(t, repo, "acme", srv.URL, "s3cret", []string{"*"}, true)

	d := NewDispatcher(repo, q, nopLogger{})
	eventID, err := d.EnqueueEvent(context.Background(), "acme",
		events.NewMessageProcessed("acme", "sess-1", 3, "All set.", 40))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		attempts := repo.attemptsFor(eventID, subID)
		return len(attempts) == 1 && attempts[0].Status == entity.AttemptStatusDelivered
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, VerifySignature("s3cret", gotBody, gotSig))

	var delivered map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &delivered))
	assert.Equal(t, "message_processed", delivered["event_type"])
	assert.Equal(t, "acme", delivered["tenant_id"])
	assert.Equal(t, eventID.String(), delivered["event_id"])
}

func TestWorkerRetriesUntilSuccess(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := newFakeRepo()
	q := queue.NewGoChannelQueue()
	defer q.Close()

	worker := NewWorker(repo, q, testWorkerConfig(), nopLogger{})
	require.NoError(t, worker.Start())

	subID := addSubscription(t, repo, "acme", srv.URL, "s1", []string{"*"}, true)

	d := NewDispatcher(repo, q, nopLogger{})
	eventID, err := d.EnqueueEvent(context.Background(), "acme",
		events.NewMessageProcessed("acme", "sess-1", 1, "hi", 5))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		attempts := repo.attemptsFor(eventID, subID)
		return len(attempts) == 3 && attempts[2].Status == entity.AttemptStatusDelivered
	}, 3*time.Second, 10*time.Millisecond)

	attempts := repo.attemptsFor(eventID, subID)
	assert.Equal(t, entity.AttemptStatusFailed, attempts[0].Status)
	assert.Equal(t, 500, attempts[0].ResponseStatus)
	assert.Equal(t, entity.AttemptStatusFailed, attempts[1].Status)
	assert.Equal(t, entity.AttemptStatusDelivered, attempts[2].Status)
	for i, a := range attempts {
		assert.Equal(t, i+1, a.AttemptNumber)
	}
}

func TestWorkerAbandonsAfterMaxAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := newFakeRepo()
	q := queue.NewGoChannelQueue()
	defer q.Close()

	cfg := testWorkerConfig()
	cfg.MaxAttempts = 2
	worker := NewWorker(repo, q, cfg, nopLogger{})
	require.NoError(t, worker.Start())

	subID := addSubscription(t, repo, "acme", srv.URL, "s1", []string{"*"}, true)

	d := NewDispatcher(repo, q, nopLogger{})
	eventID, err := d.EnqueueEvent(context.Background(), "acme",
		events.NewMessageProcessed("acme", "sess-1", 1, "hi", 5))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		attempts := repo.attemptsFor(eventID, subID)
		return len(attempts) == 2 && attempts[1].Status == entity.AttemptStatusAbandoned
	}, 3*time.Second, 10*time.Millisecond)

	attempts := repo.attemptsFor(eventID, subID)
	assert.Equal(t, entity.AttemptStatusFailed, attempts[0].Status)
	assert.Equal(t, 502, attempts[1].ResponseStatus)
}

func TestWorkerAbandonsWhenSubscriptionRemoved(t *testing.T) {
	repo := newFakeRepo()
	q := queue.NewGoChannelQueue()
	defer q.Close()

	worker := NewWorker(repo, q, testWorkerConfig(), nopLogger{})
	require.NoError(t, worker.Start())

	subID := addSubscription(t, repo, "acme", "http://unused.example", "s1", []string{"*"}, true)

	event := &entity.WebhookEvent{
		ID:        uuid.New(),
		TenantID:  "acme",
		EventType: "message_processed",
		Payload:   map[string]interface{}{"seq": 1},
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateEvent(context.Background(), event))
	require.NoError(t, repo.CreateAttempt(context.Background(), &entity.WebhookDeliveryAttempt{
		EventID:       event.ID,
		WebhookID:     subID,
		AttemptNumber: 1,
		Status:        entity.AttemptStatusPending,
		ScheduledAt:   time.Now(),
	}))
	require.NoError(t, repo.DeleteSubscription(context.Background(), "acme", subID))

	task, _ := json.Marshal(deliveryTask{EventID: event.ID, WebhookID: subID})
	require.NoError(t, q.Publish(context.Background(), TopicDelivery, task))

	require.Eventually(t, func() bool {
		attempts := repo.attemptsFor(event.ID, subID)
		return len(attempts) == 1 && attempts[0].Status == entity.AttemptStatusAbandoned
	}, 2*time.Second, 10*time.Millisecond)
}
