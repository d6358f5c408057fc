package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-agent-gateway-be/internal/pkg/logger"
)

const (
	DefaultMaxTurns   = 8
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// Manager owns all session state. Mutations for one session are serialized
// behind a per-key lock (single writer per session); reads go straight to the
// store and observe either the pre- or post-mutation record, never a torn mix,
// because the store writes whole records.
type Manager struct {
	store      SessionStore
	summarizer Summarizer
	maxTurns   int
	ttl        time.Duration
	locks      sessionLocks
	logger     logger.ILogger
}

func NewManager(store SessionStore, summarizer Summarizer, maxTurns int, ttl time.Duration, log logger.ILogger) *Manager {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		store:      store,
		summarizer: summarizer,
		maxTurns:   maxTurns,
		ttl:        ttl,
		logger:     log,
	}
}

func sessionKey(tenantID, sessionID string) string {
	return fmt.Sprintf("conversation:%s:%s", tenantID, sessionID)
}

// Context returns the rolling summary and retained raw turns for a session.
// Unknown sessions yield an empty snapshot, not an error.
func (m *Manager) Context(ctx context.Context, tenantID, sessionID string) (Snapshot, error) {
	rec, err := m.store.Load(ctx, sessionKey(tenantID, sessionID))
	if err != nil {
		return Snapshot{}, fmt.Errorf("load session: %w", err)
	}
	if rec == nil {
		return Snapshot{}, nil
	}
	return Snapshot{Summary: rec.Summary, Turns: rec.Turns}, nil
}

// AppendTurn appends one completed turn and, when the raw window overflows,
// folds the oldest excess turns into the summary before truncating. The fold
// and the truncation land in one store write.
func (m *Manager) AppendTurn(ctx context.Context, tenantID, sessionID, userMessage, agentReply string, redacted bool) (Turn, error) {
	key := sessionKey(tenantID, sessionID)
	unlock := m.locks.lock(key)
	defer unlock()

	rec, err := m.store.Load(ctx, key)
	if err != nil {
		return Turn{}, fmt.Errorf("load session: %w", err)
	}
	if rec == nil {
		rec = &SessionRecord{TenantID: tenantID, SessionID: sessionID, NextSeq: 1}
	}

	turn := Turn{
		Seq:         rec.NextSeq,
		UserMessage: userMessage,
		AgentReply:  agentReply,
		Redacted:    redacted,
		CreatedAt:   time.Now(),
	}
	rec.NextSeq++
	rec.Turns = append(rec.Turns, turn)
	rec.UpdatedAt = turn.CreatedAt

	if len(rec.Turns) > m.maxTurns {
		excess := len(rec.Turns) - m.maxTurns
		folded := rec.Turns[:excess]

		summary, err := m.summarize(ctx, rec.Summary, folded)
		if err != nil {
			return Turn{}, err
		}
		rec.Summary = summary
		rec.Turns = append([]Turn(nil), rec.Turns[excess:]...)
	}

	if err := m.store.Store(ctx, key, rec, m.ttl); err != nil {
		return Turn{}, fmt.Errorf("store session: %w", err)
	}
	return turn, nil
}

// Purge removes a session entirely, summary and raw turns both. This is the
// only destructive operation on conversation state.
func (m *Manager) Purge(ctx context.Context, tenantID, sessionID string) error {
	key := sessionKey(tenantID, sessionID)
	unlock := m.locks.lock(key)
	defer unlock()

	return m.store.Delete(ctx, key)
}

func (m *Manager) summarize(ctx context.Context, previous string, folded []Turn) (string, error) {
	if m.summarizer != nil {
		summary, err := m.summarizer.Summarize(ctx, previous, folded)
		if err == nil && strings.TrimSpace(summary) != "" {
			return summary, nil
		}
		if err != nil && m.logger != nil {
			m.logger.Warn("MemoryManager", "Summarizer failed, using naive fold", map[string]interface{}{"error": err.Error()})
		}
	}
	return NaiveFold(previous, folded), nil
}

// NaiveFold is the summarizer of last resort: it degrades summary quality but
// never loses that a turn happened.
func NaiveFold(previous string, folded []Turn) string {
	if len(folded) == 0 {
		return previous
	}
	topics := make([]string, 0, len(folded))
	for _, t := range folded {
		topics = append(topics, truncate(t.UserMessage, 80))
	}

	fold := "Earlier topics: " + strings.Join(topics, "; ")
	if last := folded[len(folded)-1].AgentReply; last != "" {
		fold += " | Last discussed: " + truncate(last, 100)
	}

	if previous == "" {
		return fold
	}
	return previous + "\n" + fold
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// sessionLocks hands out one mutex per live session key. Entries are
// refcounted and removed when the last holder releases, so idle sessions
// don't pin memory.
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(key string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sessionLock)
	}
	entry, ok := l.m[key]
	if !ok {
		entry = &sessionLock{}
		l.m[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.m, key)
		}
		l.mu.Unlock()
	}
}
