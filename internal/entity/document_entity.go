package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID        uuid.UUID
	TenantID  string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	IsDeleted bool
}
