package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/pkg/llm"
	"ai-agent-gateway-be/pkg/memory"
	"ai-agent-gateway-be/pkg/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// stubProvider replays scripted responses and records every history it
// was called with.
type stubProvider struct {
	mu        sync.Mutex
	responses []string
	err       error
	histories [][]llm.Message
}

func (s *stubProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories = append(s.histories, history)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", fmt.Errorf("stub exhausted")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func testTenant() *entity.Tenant {
	return &entity.Tenant{
		ID:           "acme",
		Name:         "Acme Dental",
		Tone:         "friendly",
		Locale:       "en",
		Disclaimers:  []string{"Not medical advice"},
		EnabledTools: []string{"get_business_hours"},
	}
}

func testRegistry() *tools.Registry {
	reg := tools.NewRegistry()
	reg.Register(tools.NewBusinessHoursTool())
	reg.Register(tools.NewScheduleVisitTool())
	return reg
}

func TestInvokeReturnsReply(t *testing.T) {
	provider := &stubProvider{responses: []string{"Hello! How can I help you today?"}}
	runner := NewRunner(provider, testRegistry(), nopLogger{})

	res, err := runner.Invoke(context.Background(), testTenant(), memory.Snapshot{}, "hi there")
	require.NoError(t, err)

	assert.Equal(t, "Hello! How can I help you today?", res.Reply)
	assert.Empty(t, res.ToolUsed)
	assert.GreaterOrEqual(t, res.Confidence, 0.7)
}

func TestInvokeIncludesHistoryAndSummary(t *testing.T) {
	provider := &stubProvider{responses: []string{"Sure."}}
	runner := NewRunner(provider, testRegistry(), nopLogger{})

	snap := memory.Snapshot{
		Summary: "Customer asked about whitening prices.",
		Turns: []memory.Turn{
			{Seq: 1, UserMessage: "how much is whitening?", AgentReply: "It starts at $200."},
		},
	}

	_, err := runner.Invoke(context.Background(), testTenant(), snap, "book me in")
	require.NoError(t, err)

	require.Len(t, provider.histories, 1)
	history := provider.histories[0]
	require.Len(t, history, 4)

	assert.Equal(t, "system", history[0].Role)
	assert.Contains(t, history[0].Content, "Acme Dental")
	assert.Contains(t, history[0].Content, "Customer asked about whitening prices.")
	assert.Contains(t, history[0].Content, "Not medical advice")
	assert.Contains(t, history[0].Content, "get_business_hours")

	assert.Equal(t, "how much is whitening?", history[1].Content)
	assert.Equal(t, "It starts at $200.", history[2].Content)
	assert.Equal(t, "book me in", history[3].Content)
}

func TestInvokeRunsEnabledTool(t *testing.T) {
	provider := &stubProvider{responses: []string{
		`TOOL:get_business_hours {"day": "monday"}`,
		"We're open Monday from 9:00 AM to 6:00 PM.",
	}}
	runner := NewRunner(provider, testRegistry(), nopLogger{})

	res, err := runner.Invoke(context.Background(), testTenant(), memory.Snapshot{}, "when are you open monday?")
	require.NoError(t, err)

	assert.Equal(t, "get_business_hours", res.ToolUsed)
	assert.Equal(t, "We're open Monday from 9:00 AM to 6:00 PM.", res.Reply)

	require.Len(t, provider.histories, 2)
	followUp := provider.histories[1]
	last := followUp[len(followUp)-1]
	assert.Equal(t, "system", last.Role)
	assert.Contains(t, last.Content, "9:00 AM - 6:00 PM")
}

func TestInvokeRefusesDisabledTool(t *testing.T) {
	provider := &stubProvider{responses: []string{
		`TOOL:schedule_visit {"date": "2026-09-01", "time": "10:00"}`,
		"I can't book visits here, but you can call us.",
	}}
	runner := NewRunner(provider, testRegistry(), nopLogger{})

	res, err := runner.Invoke(context.Background(), testTenant(), memory.Snapshot{}, "book tomorrow 10am")
	require.NoError(t, err)

	assert.Empty(t, res.ToolUsed)
	assert.Equal(t, "I can't book visits here, but you can call us.", res.Reply)
}

func TestInvokeStopsAfterOneToolRound(t *testing.T) {
	provider := &stubProvider{responses: []string{
		`TOOL:get_business_hours {}`,
		`TOOL:get_business_hours {}`,
	}}
	runner := NewRunner(provider, testRegistry(), nopLogger{})

	res, err := runner.Invoke(context.Background(), testTenant(), memory.Snapshot{}, "hours?")
	require.NoError(t, err)

	assert.Equal(t, "get_business_hours", res.ToolUsed)
	// Second tool request is not honored; the tool feedback becomes the reply.
	assert.False(t, strings.HasPrefix(res.Reply, "TOOL:"))
	assert.Contains(t, res.Reply, "Monday")
}

func TestInvokePropagatesProviderError(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("connection refused")}
	runner := NewRunner(provider, testRegistry(), nopLogger{})

	_, err := runner.Invoke(context.Background(), testTenant(), memory.Snapshot{}, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model call failed")
}

func TestParseToolCall(t *testing.T) {
	name, args := parseToolCall(`TOOL:schedule_visit {"date": "2026-09-01", "time": "10:00"}`)
	assert.Equal(t, "schedule_visit", name)
	assert.Equal(t, "2026-09-01", args["date"])

	name, args = parseToolCall("TOOL:get_business_hours")
	assert.Equal(t, "get_business_hours", name)
	assert.Empty(t, args)

	// Malformed JSON degrades to empty args instead of failing the turn.
	name, args = parseToolCall(`TOOL:send_email {not json}`)
	assert.Equal(t, "send_email", name)
	assert.Empty(t, args)

	// Only the first line counts.
	name, _ = parseToolCall("TOOL:get_business_hours {}\nextra commentary")
	assert.Equal(t, "get_business_hours", name)
}

func TestEstimateConfidence(t *testing.T) {
	confident := estimateConfidence("Our whitening sessions start at $200 and take about an hour.", false)
	hedged := estimateConfidence("I'm not sure, it might be around $200.", false)
	short := estimateConfidence("Yes.", false)

	assert.Greater(t, confident, 0.7)
	assert.Less(t, hedged, 0.7)
	assert.Less(t, short, confident)

	assert.GreaterOrEqual(t, estimateConfidence("", false), 0.05)
	assert.LessOrEqual(t, estimateConfidence(strings.Repeat("great ", 50), true), 0.99)
}
