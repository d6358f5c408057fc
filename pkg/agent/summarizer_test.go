package agent

import (
	"context"
	"fmt"
	"testing"

	"ai-agent-gateway-be/pkg/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeBuildsPromptFromTurns(t *testing.T) {
	provider := &stubProvider{responses: []string{"Customer booked a Monday visit."}}
	s := NewLLMSummarizer(provider)

	summary, err := s.Summarize(context.Background(), "Earlier: pricing questions.", []memory.Turn{
		{Seq: 1, UserMessage: "can I come monday?", AgentReply: "Yes, 10am works."},
	})
	require.NoError(t, err)
	assert.Equal(t, "Customer booked a Monday visit.", summary)

	require.Len(t, provider.histories, 1)
	prompt := provider.histories[0][0].Content
	assert.Contains(t, prompt, "Earlier: pricing questions.")
	assert.Contains(t, prompt, "can I come monday?")
	assert.Contains(t, prompt, "Yes, 10am works.")
}

func TestSummarizeRejectsEmptyResult(t *testing.T) {
	provider := &stubProvider{responses: []string{"   "}}
	s := NewLLMSummarizer(provider)

	_, err := s.Summarize(context.Background(), "", []memory.Turn{{Seq: 1, UserMessage: "hi", AgentReply: "hello"}})
	assert.Error(t, err)
}

func TestSummarizePropagatesProviderError(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("timeout")}
	s := NewLLMSummarizer(provider)

	_, err := s.Summarize(context.Background(), "", []memory.Turn{{Seq: 1, UserMessage: "hi", AgentReply: "hello"}})
	assert.Error(t, err)
}
