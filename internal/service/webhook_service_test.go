package service

import (
	"context"
	"testing"

	"ai-agent-gateway-be/internal/dto"
	"ai-agent-gateway-be/internal/pkg/serverutils"
	"ai-agent-gateway-be/pkg/events"
	"ai-agent-gateway-be/pkg/webhook"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookFixture() (IWebhookService, *fakeWebhookRepo) {
	repo := &fakeWebhookRepo{}
	dispatcher := webhook.NewDispatcher(repo, dropPublisher{}, nopLogger{})
	return NewWebhookService(repo, dispatcher, nopLogger{}), repo
}

func createWebhook(t *testing.T, svc IWebhookService, tenantID string) uuid.UUID {
	t.Helper()
	res, err := svc.Create(context.Background(), tenantID, &dto.CreateWebhookRequest{
		URL:        "https://hooks.example.com/sink",
		Secret:     "test-secret-0123456789",
		EventTypes: []string{events.TypeMessageProcessed},
	})
	require.NoError(t, err)
	return res.ID
}

func TestWebhookCreateAndGet(t *testing.T) {
	svc, _ := newWebhookFixture()
	id := createWebhook(t, svc, "acme")

	detail, err := svc.Get(context.Background(), "acme", id)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/sink", detail.URL)
	assert.True(t, detail.Enabled)
	assert.Equal(t, []string{events.TypeMessageProcessed}, detail.EventTypes)
}

func TestWebhookTenantIsolation(t *testing.T) {
	svc, _ := newWebhookFixture()
	id := createWebhook(t, svc, "acme")

	_, err := svc.Get(context.Background(), "globex", id)
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestWebhookUpdateDisables(t *testing.T) {
	svc, _ := newWebhookFixture()
	id := createWebhook(t, svc, "acme")

	disabled := false
	detail, err := svc.Update(context.Background(), "acme", &dto.UpdateWebhookRequest{
		ID:      id,
		Enabled: &disabled,
	})
	require.NoError(t, err)
	assert.False(t, detail.Enabled)
	// Fields not in the request stay as they were.
	assert.Equal(t, "https://hooks.example.com/sink", detail.URL)
}

func TestWebhookDeleteHidesFromList(t *testing.T) {
	svc, _ := newWebhookFixture()
	id := createWebhook(t, svc, "acme")

	require.NoError(t, svc.Delete(context.Background(), "acme", id))

	list, err := svc.List(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(context.Background(), "acme", id)
	require.Error(t, err)
}

func TestWebhookSendTest(t *testing.T) {
	svc, repo := newWebhookFixture()
	id := createWebhook(t, svc, "acme")

	res, err := svc.SendTest(context.Background(), "acme", id)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, res.EventID)

	// A test ping is stored like any other event, with its first attempt.
	pings := repo.eventsOfType(events.TypeTestPing)
	require.Len(t, pings, 1)
	assert.Equal(t, res.EventID, pings[0].ID)
	assert.Equal(t, 1, repo.attemptCount())

	detail, err := svc.GetEvent(context.Background(), "acme", res.EventID)
	require.NoError(t, err)
	require.Len(t, detail.Attempts, 1)
	assert.Equal(t, 1, detail.Attempts[0].AttemptNumber)
}

func TestWebhookGetEventTenantIsolation(t *testing.T) {
	svc, _ := newWebhookFixture()
	id := createWebhook(t, svc, "acme")

	res, err := svc.SendTest(context.Background(), "acme", id)
	require.NoError(t, err)

	_, err = svc.GetEvent(context.Background(), "globex", res.EventID)
	require.Error(t, err)
}
