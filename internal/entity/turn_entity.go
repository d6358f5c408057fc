package entity

import (
	"time"

	"github.com/google/uuid"
)

// Turn statuses as recorded in the audit trail.
const (
	TurnStatusProcessed         = "PROCESSED"
	TurnStatusRejectedGuardrail = "REJECTED_GUARDRAIL"
	TurnStatusDegraded          = "DEGRADED"
	TurnStatusFailed            = "FAILED"
)

// Turn is one audited exchange between a user and the agent.
type Turn struct {
	ID          uuid.UUID
	TenantID    string
	SessionID   string
	Seq         int64
	UserMessage string
	AgentReply  string
	Status      string
	Redacted    bool
	RuleIDs     []string
	LatencyMs   int64
	CreatedAt   time.Time
}
