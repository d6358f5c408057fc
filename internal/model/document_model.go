package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is tenant knowledge-base content searchable by the agent's
// search_documents tool.
type Document struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID  string         `gorm:"type:varchar(100);index;not null"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Content   string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
