package dto

type ProcessMessageRequest struct {
	SessionID string `json:"session_id" validate:"required,min=1,max=100"`
	Message   string `json:"message" validate:"required"`
}

type ProcessMessageResponse struct {
	SessionID  string   `json:"session_id"`
	Seq        int64    `json:"seq"`
	Reply      string   `json:"reply"`
	Status     string   `json:"status"`
	Redacted   bool     `json:"redacted"`
	RuleIDs    []string `json:"rule_ids,omitempty"`
	ToolUsed   string   `json:"tool_used,omitempty"`
	Confidence float64  `json:"confidence"`
	LatencyMs  int64    `json:"latency_ms"`
}

type SessionHistoryResponse struct {
	SessionID string              `json:"session_id"`
	Summary   string              `json:"summary"`
	Turns     []SessionTurnDetail `json:"turns"`
}

type SessionTurnDetail struct {
	Seq         int64  `json:"seq"`
	UserMessage string `json:"user_message"`
	AgentReply  string `json:"agent_reply"`
	Redacted    bool   `json:"redacted"`
	CreatedAt   string `json:"created_at"`
}
