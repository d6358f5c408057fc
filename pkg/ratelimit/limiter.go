package ratelimit

import (
	"context"
	"fmt"
	"time"

	"ai-agent-gateway-be/internal/pkg/logger"
)

// Decision is the outcome of one admission check. RetryAfter is only set when
// the request was rejected and tells the caller when the window resets.
type Decision struct {
	Allowed    bool          `json:"allowed"`
	Remaining  int           `json:"remaining"`
	RetryAfter time.Duration `json:"retry_after"`
}

// Quota is the per-tenant fair-use budget for one session.
type Quota struct {
	Limit  int
	Window time.Duration
}

// DefaultQuota is the hardcoded conservative fallback used when the tenant
// configuration is missing or invalid. The limiter fails open on purpose:
// it is a fairness control, not a security boundary, and rejecting all
// traffic on a config mistake would be worse than briefly over-admitting.
var DefaultQuota = Quota{Limit: 60, Window: time.Minute}

// Limiter enforces a fixed-window counter per (tenant, session) key on top of
// a pluggable WindowStore. Counting for one key is linearizable inside the
// store; distinct keys never contend.
type Limiter struct {
	store  WindowStore
	logger logger.ILogger
}

func NewLimiter(store WindowStore, log logger.ILogger) *Limiter {
	return &Limiter{store: store, logger: log}
}

// Admit checks whether one request of the given cost fits into the current
// window. An over-quota increment is rolled back so the counter never settles
// above the limit. Store failures admit the request (fail open) and are
// logged rather than surfaced.
func (l *Limiter) Admit(ctx context.Context, tenantID, sessionID string, q Quota, cost int) Decision {
	if q.Limit <= 0 || q.Window <= 0 {
		q = DefaultQuota
	}
	if cost <= 0 {
		cost = 1
	}

	key := fmt.Sprintf("rate_limit:%s:%s", tenantID, sessionID)

	count, ttl, err := l.store.Incr(ctx, key, cost, q.Window)
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("RateLimiter", "Window store unavailable, admitting request", map[string]interface{}{
				"tenant_id": tenantID,
				"error":     err.Error(),
			})
		}
		return Decision{Allowed: true, Remaining: -1}
	}

	if count > q.Limit {
		if err := l.store.Decr(ctx, key, cost, q.Window); err != nil && l.logger != nil {
			l.logger.Warn("RateLimiter", "Failed to roll back over-quota increment", map[string]interface{}{
				"tenant_id": tenantID,
				"error":     err.Error(),
			})
		}
		return Decision{Allowed: false, Remaining: 0, RetryAfter: ttl}
	}

	return Decision{Allowed: true, Remaining: q.Limit - count}
}
