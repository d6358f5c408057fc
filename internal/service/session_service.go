// FILE: internal/service/session_service.go
package service

import (
	"context"
	"time"

	"ai-agent-gateway-be/internal/dto"
	"ai-agent-gateway-be/internal/pkg/logger"
	"ai-agent-gateway-be/pkg/memory"
)

type ISessionService interface {
	History(ctx context.Context, tenantID, sessionID string) (*dto.SessionHistoryResponse, error)
	Purge(ctx context.Context, tenantID, sessionID string) error
}

// sessionService exposes the live conversation window. History reads the
// memory snapshot, not the audit trail; purging a session clears memory
// only, the audit rows stay.
type sessionService struct {
	mem    *memory.Manager
	logger logger.ILogger
}

func NewSessionService(mem *memory.Manager, log logger.ILogger) ISessionService {
	return &sessionService{mem: mem, logger: log}
}

func (s *sessionService) History(ctx context.Context, tenantID, sessionID string) (*dto.SessionHistoryResponse, error) {
	snap, err := s.mem.Context(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	turns := make([]dto.SessionTurnDetail, 0, len(snap.Turns))
	for _, t := range snap.Turns {
		turns = append(turns, dto.SessionTurnDetail{
			Seq:         t.Seq,
			UserMessage: t.UserMessage,
			AgentReply:  t.AgentReply,
			Redacted:    t.Redacted,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.SessionHistoryResponse{
		SessionID: sessionID,
		Summary:   snap.Summary,
		Turns:     turns,
	}, nil
}

func (s *sessionService) Purge(ctx context.Context, tenantID, sessionID string) error {
	if err := s.mem.Purge(ctx, tenantID, sessionID); err != nil {
		return err
	}
	s.logger.Info("Session", "Session memory purged", map[string]interface{}{
		"tenant_id":  tenantID,
		"session_id": sessionID,
	})
	return nil
}
