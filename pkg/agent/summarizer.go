package agent

import (
	"context"
	"fmt"
	"strings"

	"ai-agent-gateway-be/pkg/llm"
	"ai-agent-gateway-be/pkg/memory"
)

// LLMSummarizer folds trimmed turns into the rolling summary with a model
// call. Manager falls back to its naive fold when Summarize errors, so
// failures here never lose context entirely.
type LLMSummarizer struct {
	provider llm.LLMProvider
}

var _ memory.Summarizer = &LLMSummarizer{}

func NewLLMSummarizer(provider llm.LLMProvider) *LLMSummarizer {
	return &LLMSummarizer{provider: provider}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, previous string, folded []memory.Turn) (string, error) {
	var b strings.Builder
	b.WriteString("Condense the following conversation into a short summary that preserves names, decisions, and open requests. Reply with the summary only.\n")
	if previous != "" {
		fmt.Fprintf(&b, "Existing summary: %s\n", previous)
	}
	b.WriteString("New exchanges:\n")
	for _, turn := range folded {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.UserMessage, turn.AgentReply)
	}

	summary, err := s.provider.Generate(ctx, b.String(), llm.WithMaxTokens(200))
	if err != nil {
		return "", fmt.Errorf("summarize failed: %w", err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("summarize returned empty text")
	}
	return summary, nil
}
