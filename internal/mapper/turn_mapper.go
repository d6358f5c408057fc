package mapper

import (
	"strings"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/model"
)

type TurnMapper struct{}

func NewTurnMapper() *TurnMapper {
	return &TurnMapper{}
}

func (m *TurnMapper) ToEntity(t *model.Turn) *entity.Turn {
	if t == nil {
		return nil
	}

	var ruleIDs []string
	if t.RuleIDs != "" {
		ruleIDs = strings.Split(t.RuleIDs, ",")
	}

	return &entity.Turn{
		ID:          t.ID,
		TenantID:    t.TenantID,
		SessionID:   t.SessionID,
		Seq:         t.Seq,
		UserMessage: t.UserMessage,
		AgentReply:  t.AgentReply,
		Status:      t.Status,
		Redacted:    t.Redacted,
		RuleIDs:     ruleIDs,
		LatencyMs:   t.LatencyMs,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *TurnMapper) ToModel(t *entity.Turn) *model.Turn {
	if t == nil {
		return nil
	}

	return &model.Turn{
		ID:          t.ID,
		TenantID:    t.TenantID,
		SessionID:   t.SessionID,
		Seq:         t.Seq,
		UserMessage: t.UserMessage,
		AgentReply:  t.AgentReply,
		Status:      t.Status,
		Redacted:    t.Redacted,
		RuleIDs:     strings.Join(t.RuleIDs, ","),
		LatencyMs:   t.LatencyMs,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *TurnMapper) ToEntities(turns []*model.Turn) []*entity.Turn {
	entities := make([]*entity.Turn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
