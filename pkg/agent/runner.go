package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/pkg/logger"
	"ai-agent-gateway-be/pkg/llm"
	"ai-agent-gateway-be/pkg/memory"
	"ai-agent-gateway-be/pkg/tools"
)

// toolPrefix marks a model response that requests a tool call instead of
// answering: "TOOL:<name> <json args>". One tool round per turn.
const toolPrefix = "TOOL:"

// Result is the outcome of one agent turn before output screening.
type Result struct {
	Reply      string
	Confidence float64
	ToolUsed   string
}

// UpstreamFailureReply is the abstention returned to the user when the
// model call itself fails. The pipeline substitutes it with confidence
// zero and still records and notifies the turn.
const UpstreamFailureReply = "I apologize, but I encountered an issue processing your request. Please try again or contact support if the problem persists."

// Runner drives a single conversational turn: prompt assembly, the model
// call, and at most one tool round.
type Runner struct {
	provider llm.LLMProvider
	registry *tools.Registry
	logger   logger.ILogger
}

func NewRunner(provider llm.LLMProvider, registry *tools.Registry, log logger.ILogger) *Runner {
	return &Runner{
		provider: provider,
		registry: registry,
		logger:   log,
	}
}

// Invoke runs the turn for the given tenant. The snapshot supplies the
// rolling summary and recent turns; userMessage has already been through
// input screening.
func (r *Runner) Invoke(ctx context.Context, tenant *entity.Tenant, snap memory.Snapshot, userMessage string) (Result, error) {
	history := r.buildHistory(tenant, snap, userMessage)

	reply, err := r.provider.Chat(ctx, history)
	if err != nil {
		return Result{}, fmt.Errorf("model call failed: %w", err)
	}

	result := Result{Reply: strings.TrimSpace(reply)}

	if strings.HasPrefix(result.Reply, toolPrefix) {
		result = r.runToolRound(ctx, tenant, history, result.Reply)
	}

	result.Confidence = estimateConfidence(result.Reply, result.ToolUsed != "")
	return result, nil
}

func (r *Runner) buildHistory(tenant *entity.Tenant, snap memory.Snapshot, userMessage string) []llm.Message {
	history := []llm.Message{
		{Role: "system", Content: r.systemPrompt(tenant, snap.Summary)},
	}
	for _, turn := range snap.Turns {
		history = append(history,
			llm.Message{Role: "user", Content: turn.UserMessage},
			llm.Message{Role: "assistant", Content: turn.AgentReply},
		)
	}
	return append(history, llm.Message{Role: "user", Content: userMessage})
}

func (r *Runner) systemPrompt(tenant *entity.Tenant, summary string) string {
	var b strings.Builder

	b.WriteString("You are a helpful assistant for ")
	if tenant.Name != "" {
		b.WriteString(tenant.Name)
	} else {
		b.WriteString("this business")
	}
	b.WriteString(". ")
	b.WriteString(toneInstruction(tenant.Tone))
	b.WriteString("\n")

	if tenant.Locale != "" && tenant.Locale != "en" {
		fmt.Fprintf(&b, "Respond in the language with code %q.\n", tenant.Locale)
	}
	if tenant.CustomInstructions != "" {
		b.WriteString(tenant.CustomInstructions)
		b.WriteString("\n")
	}
	if len(tenant.Disclaimers) > 0 {
		b.WriteString("When relevant, mention: ")
		b.WriteString(strings.Join(tenant.Disclaimers, "; "))
		b.WriteString("\n")
	}

	var toolLines []string
	for _, name := range tenant.EnabledTools {
		if line := r.registry.Describe(name); line != "" {
			toolLines = append(toolLines, "- "+line)
		}
	}
	if len(toolLines) > 0 {
		b.WriteString("You can use tools. To call one, reply with exactly one line: TOOL:<name> <json arguments>. Do not add any other text to that line.\nAvailable tools:\n")
		b.WriteString(strings.Join(toolLines, "\n"))
		b.WriteString("\n")
	}

	if summary != "" {
		b.WriteString("Summary of the conversation so far: ")
		b.WriteString(summary)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func toneInstruction(tone string) string {
	switch tone {
	case "friendly":
		return "Be warm and approachable, and keep answers conversational."
	case "casual":
		return "Keep a relaxed, informal register."
	case "formal":
		return "Use precise, formal language and complete sentences."
	default:
		return "Keep a professional, courteous register."
	}
}

// runToolRound executes the requested tool and asks the model to phrase
// the final answer. If anything goes wrong the tool outcome itself
// becomes the reply so the user still gets an answer.
func (r *Runner) runToolRound(ctx context.Context, tenant *entity.Tenant, history []llm.Message, toolReply string) Result {
	name, args := parseToolCall(toolReply)

	if !toolEnabled(tenant, name) {
		r.logger.Warn("agent", "Model requested unavailable tool", map[string]interface{}{
			"tenant_id": tenant.ID,
			"tool":      name,
		})
		return r.finishRound(ctx, history, toolReply, "",
			fmt.Sprintf("Tool %q is not available. Answer without it.", name))
	}

	tool, ok := r.registry.Get(name)
	if !ok {
		return r.finishRound(ctx, history, toolReply, "",
			fmt.Sprintf("Tool %q does not exist. Answer without it.", name))
	}

	output, err := tool.Execute(ctx, tenant.ID, args)
	if err != nil {
		r.logger.Error("agent", "Tool execution failed", map[string]interface{}{
			"tenant_id": tenant.ID,
			"tool":      name,
			"error":     err.Error(),
		})
		return r.finishRound(ctx, history, toolReply, "",
			fmt.Sprintf("Tool %q failed: %v. Apologize briefly and offer an alternative.", name, err))
	}

	return r.finishRound(ctx, history, toolReply, name,
		fmt.Sprintf("Tool %q returned:\n%s\nUse this result to answer the user.", name, output))
}

func (r *Runner) finishRound(ctx context.Context, history []llm.Message, toolReply, toolUsed, feedback string) Result {
	followUp := append(history,
		llm.Message{Role: "assistant", Content: toolReply},
		llm.Message{Role: "system", Content: feedback},
	)

	reply, err := r.provider.Chat(ctx, followUp)
	if err != nil {
		// Surface the tool feedback directly rather than failing the
		// whole turn on the second model call.
		return Result{Reply: feedback, ToolUsed: toolUsed}
	}

	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, toolPrefix) {
		// One round only.
		reply = feedback
	}
	return Result{Reply: reply, ToolUsed: toolUsed}
}

func parseToolCall(reply string) (string, map[string]interface{}) {
	line := strings.TrimPrefix(reply, toolPrefix)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)

	name := line
	args := map[string]interface{}{}
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		name = line[:idx]
		if err := json.Unmarshal([]byte(strings.TrimSpace(line[idx+1:])), &args); err != nil {
			args = map[string]interface{}{}
		}
	}
	return name, args
}

func toolEnabled(tenant *entity.Tenant, name string) bool {
	for _, enabled := range tenant.EnabledTools {
		if enabled == name {
			return true
		}
	}
	return false
}

// estimateConfidence scores the reply heuristically. Providers in use do
// not expose token logprobs, so hedging language and degenerate lengths
// stand in for model uncertainty.
func estimateConfidence(reply string, toolSucceeded bool) float64 {
	score := 0.85

	lower := strings.ToLower(reply)
	hedges := []string{
		"i'm not sure", "i am not sure", "i don't know", "i do not know",
		"i cannot", "i can't", "unclear", "might be", "it may be", "perhaps",
	}
	for _, h := range hedges {
		if strings.Contains(lower, h) {
			score -= 0.25
			break
		}
	}

	if utf8.RuneCountInString(reply) < 20 {
		score -= 0.2
	}
	if toolSucceeded {
		score += 0.1
	}

	if score < 0.05 {
		score = 0.05
	}
	if score > 0.99 {
		score = 0.99
	}
	return score
}
