package events

import "time"

// Event types emitted by the message pipeline.
const (
	TypeMessageProcessed   = "message_processed"
	TypeGuardrailTriggered = "guardrail_triggered"
	TypeErrorOccurred      = "error_occurred"
	TypeTestPing           = "test_ping"
)

// NewMessageProcessed is emitted after a turn completes end to end.
// Reply text has already been through output screening, so it is safe
// to hand to external consumers.
func NewMessageProcessed(tenantID, sessionID string, seq int64, reply string, latencyMs int64) Event {
	return BaseEvent{
		Type: TypeMessageProcessed,
		Data: map[string]interface{}{
			"tenant_id":  tenantID,
			"session_id": sessionID,
			"seq":        seq,
			"reply":      reply,
			"latency_ms": latencyMs,
		},
		OccurredAt: time.Now(),
	}
}

// NewGuardrailTriggered is emitted when input or output screening blocks
// or rewrites a message.
func NewGuardrailTriggered(tenantID, sessionID, stage string, ruleIDs []string) Event {
	return BaseEvent{
		Type: TypeGuardrailTriggered,
		Data: map[string]interface{}{
			"tenant_id":  tenantID,
			"session_id": sessionID,
			"stage":      stage,
			"rule_ids":   ruleIDs,
		},
		OccurredAt: time.Now(),
	}
}

// NewErrorOccurred is emitted when a turn fails after admission, for
// example an upstream model error.
func NewErrorOccurred(tenantID, sessionID, code, detail string) Event {
	return BaseEvent{
		Type: TypeErrorOccurred,
		Data: map[string]interface{}{
			"tenant_id":  tenantID,
			"session_id": sessionID,
			"code":       code,
			"detail":     detail,
		},
		OccurredAt: time.Now(),
	}
}
