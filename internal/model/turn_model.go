package model

import (
	"time"

	"github.com/google/uuid"
)

// Turn is the durable audit record of one exchange. UserMessage and
// AgentReply are stored after PII masking, never the raw text.
type Turn struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID    string    `gorm:"type:varchar(100);index:idx_turns_session;not null"`
	SessionID   string    `gorm:"type:varchar(100);index:idx_turns_session;not null"`
	Seq         int64     `gorm:"not null"`
	UserMessage string    `gorm:"type:text;not null"`
	AgentReply  string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(30);not null"`
	Redacted    bool      `gorm:"default:false"`
	RuleIDs     string    `gorm:"type:varchar(255)"`
	LatencyMs   int64
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Turn) TableName() string {
	return "turns"
}
