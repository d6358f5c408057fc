package memory

import (
	"context"
	"time"
)

// Turn is one user message / agent reply pair. Immutable once appended; Seq
// is strictly increasing within a session and never reused, even after older
// turns are folded into the summary.
type Turn struct {
	Seq         int64     `json:"seq"`
	UserMessage string    `json:"user_message"`
	AgentReply  string    `json:"agent_reply"`
	Redacted    bool      `json:"redacted"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionRecord is the full persisted state of one conversation. The whole
// record is written as a single value, so a summary update and the matching
// raw-turn truncation always commit together.
type SessionRecord struct {
	TenantID  string    `json:"tenant_id"`
	SessionID string    `json:"session_id"`
	Summary   string    `json:"summary"`
	Turns     []Turn    `json:"turns"`
	NextSeq   int64     `json:"next_seq"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is the read view handed to the pipeline: the rolling summary plus
// the retained raw turns, oldest first.
type Snapshot struct {
	Summary string `json:"summary"`
	Turns   []Turn `json:"turns"`
}

// SessionStore persists session records keyed by conversation:{tenant}:{session}.
// Idle-session eviction is a store-level TTL concern, not reimplemented here.
type SessionStore interface {
	// Load returns nil, nil for an unknown or expired key.
	Load(ctx context.Context, key string) (*SessionRecord, error)
	Store(ctx context.Context, key string, rec *SessionRecord, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Summarizer folds turns that fall out of the raw window into the rolling
// summary. The production implementation calls the LLM; failures fall back to
// a naive textual fold so no turn is ever silently dropped.
type Summarizer interface {
	Summarize(ctx context.Context, previous string, folded []Turn) (string, error)
}
