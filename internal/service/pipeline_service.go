// FILE: internal/service/pipeline_service.go
package service

import (
	"context"
	"time"

	"ai-agent-gateway-be/internal/dto"
	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/pkg/logger"
	"ai-agent-gateway-be/internal/pkg/serverutils"
	"ai-agent-gateway-be/internal/repository/contract"
	"ai-agent-gateway-be/pkg/agent"
	"ai-agent-gateway-be/pkg/events"
	"ai-agent-gateway-be/pkg/guardrail"
	"ai-agent-gateway-be/pkg/memory"
	"ai-agent-gateway-be/pkg/ratelimit"
	"ai-agent-gateway-be/pkg/webhook"

	"github.com/google/uuid"
)

// notifyTimeout bounds the detached event dispatch after a turn finishes.
const notifyTimeout = 10 * time.Second

type IPipelineService interface {
	Process(ctx context.Context, tenant *entity.Tenant, req *dto.ProcessMessageRequest) (*dto.ProcessMessageResponse, error)
}

// pipelineService coordinates one message through admission, screening,
// the agent, memory, audit, and event fan-out. Stages run in a fixed
// order; each stage decides whether the turn continues, degrades, or
// stops with a typed rejection.
type pipelineService struct {
	limiter    *ratelimit.Limiter
	engine     *guardrail.Engine
	mem        *memory.Manager
	runner     *agent.Runner
	turnRepo   contract.TurnRepository
	dispatcher *webhook.Dispatcher
	logger     logger.ILogger
}

func NewPipelineService(
	limiter *ratelimit.Limiter,
	engine *guardrail.Engine,
	mem *memory.Manager,
	runner *agent.Runner,
	turnRepo contract.TurnRepository,
	dispatcher *webhook.Dispatcher,
	log logger.ILogger,
) IPipelineService {
	return &pipelineService{
		limiter:    limiter,
		engine:     engine,
		mem:        mem,
		runner:     runner,
		turnRepo:   turnRepo,
		dispatcher: dispatcher,
		logger:     log,
	}
}

func (s *pipelineService) Process(ctx context.Context, tenant *entity.Tenant, req *dto.ProcessMessageRequest) (*dto.ProcessMessageResponse, error) {
	started := time.Now()

	// 1. Admission. Rejected requests cost nothing downstream and leave
	// no audit row.
	quota := ratelimit.Quota{
		Limit:  tenant.RateLimitQuota,
		Window: time.Duration(tenant.RateLimitWindowSecs) * time.Second,
	}
	decision := s.limiter.Admit(ctx, tenant.ID, req.SessionID, quota, 1)
	if !decision.Allowed {
		return nil, serverutils.NewRateLimitRejection(decision.RetryAfter)
	}

	policy := guardrail.Policy{
		MaxInputChars:     tenant.MaxInputChars,
		NonsenseThreshold: tenant.NonsenseThreshold,
		ForbiddenClaims:   tenant.ForbiddenClaims,
	}

	// 2. Input screen. Blocked input is audited with the masked text and
	// always marked redacted; the raw message never reaches storage.
	inVerdict := s.engine.ScreenInput(req.Message, policy)
	if inVerdict.Blocked() {
		masked, _ := guardrail.MaskPII(req.Message)
		s.auditTurn(ctx, tenant.ID, req.SessionID, &entity.Turn{
			UserMessage: masked,
			Status:      entity.TurnStatusRejectedGuardrail,
			Redacted:    true,
			RuleIDs:     inVerdict.RuleIDs,
			LatencyMs:   time.Since(started).Milliseconds(),
		})
		s.notify(tenant.ID, events.NewGuardrailTriggered(tenant.ID, req.SessionID, "input", inVerdict.RuleIDs))
		return nil, serverutils.NewGuardrailRejection(inVerdict.RuleIDs, inVerdict.Suggestion)
	}

	screenedInput := inVerdict.Redacted
	redactedInput := screenedInput != req.Message
	ruleIDs := append([]string(nil), inVerdict.RuleIDs...)

	// 3. Conversation context.
	snap, err := s.mem.Context(ctx, tenant.ID, req.SessionID)
	if err != nil {
		s.logger.Error("Pipeline", "Failed to load session context", map[string]interface{}{
			"tenant_id":  tenant.ID,
			"session_id": req.SessionID,
			"error":      err.Error(),
		})
		// Degrade to a stateless turn rather than failing the message.
		snap = memory.Snapshot{}
	}

	// 4. Agent turn. A model failure never surfaces as a hard error:
	// the turn degrades to an abstention reply with zero confidence and
	// still runs through memory, audit, and notification.
	status := entity.TurnStatusProcessed
	result, invokeErr := s.runner.Invoke(ctx, tenant, snap, screenedInput)
	if invokeErr != nil {
		s.logger.Error("Pipeline", "Agent invocation failed", map[string]interface{}{
			"tenant_id":  tenant.ID,
			"session_id": req.SessionID,
			"error":      invokeErr.Error(),
		})
		s.notify(tenant.ID, events.NewErrorOccurred(tenant.ID, req.SessionID, serverutils.CodeUpstreamError, invokeErr.Error()))
		result = agent.Result{Reply: agent.UpstreamFailureReply}
		status = entity.TurnStatusFailed
	}

	// The model round trip has started; from here the turn outlives a
	// disconnecting caller.
	persistCtx := context.WithoutCancel(ctx)

	// 5. Output screen. A blocked reply degrades to the fallback text;
	// the turn still completes. The fixed abstention text needs no
	// screening and must not be reclassified by the confidence rules.
	reply := result.Reply
	if invokeErr == nil {
		outVerdict := s.engine.ScreenOutput(result.Reply, result.Confidence, policy)
		reply = outVerdict.Redacted
		if outVerdict.Blocked() {
			reply = outVerdict.Suggestion
			status = entity.TurnStatusDegraded
		}
		if len(outVerdict.RuleIDs) > 0 {
			ruleIDs = append(ruleIDs, outVerdict.RuleIDs...)
			s.notify(tenant.ID, events.NewGuardrailTriggered(tenant.ID, req.SessionID, "output", outVerdict.RuleIDs))
		}
	}

	// 6. Memory and audit. The reply stored is the one the user saw.
	turn, err := s.mem.AppendTurn(persistCtx, tenant.ID, req.SessionID, screenedInput, reply, redactedInput)
	if err != nil {
		s.logger.Error("Pipeline", "Failed to append turn to session memory", map[string]interface{}{
			"tenant_id":  tenant.ID,
			"session_id": req.SessionID,
			"error":      err.Error(),
		})
	}

	latency := time.Since(started).Milliseconds()
	s.auditTurn(persistCtx, tenant.ID, req.SessionID, &entity.Turn{
		Seq:         turn.Seq,
		UserMessage: screenedInput,
		AgentReply:  reply,
		Status:      status,
		Redacted:    redactedInput,
		RuleIDs:     ruleIDs,
		LatencyMs:   latency,
	})

	if invokeErr == nil {
		s.notify(tenant.ID, events.NewMessageProcessed(tenant.ID, req.SessionID, turn.Seq, reply, latency))
	}

	return &dto.ProcessMessageResponse{
		SessionID:  req.SessionID,
		Seq:        turn.Seq,
		Reply:      reply,
		Status:     status,
		Redacted:   redactedInput,
		RuleIDs:    ruleIDs,
		ToolUsed:   result.ToolUsed,
		Confidence: result.Confidence,
		LatencyMs:  latency,
	}, nil
}

// auditTurn persists the audit row. Audit failures are logged, not
// surfaced; the user already has their answer.
func (s *pipelineService) auditTurn(ctx context.Context, tenantID, sessionID string, turn *entity.Turn) {
	turn.ID = uuid.New()
	turn.TenantID = tenantID
	turn.SessionID = sessionID
	turn.CreatedAt = time.Now()

	if err := s.turnRepo.Create(ctx, turn); err != nil {
		s.logger.Error("Pipeline", "Failed to persist audit turn", map[string]interface{}{
			"tenant_id":  tenantID,
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

// notify dispatches an event on a detached context so a slow webhook
// store never holds up the HTTP response.
func (s *pipelineService) notify(tenantID string, ev events.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if _, err := s.dispatcher.EnqueueEvent(ctx, tenantID, ev); err != nil {
			s.logger.Error("Pipeline", "Failed to enqueue event", map[string]interface{}{
				"tenant_id": tenantID,
				"type":      ev.EventType(),
				"error":     err.Error(),
			})
		}
	}()
}
