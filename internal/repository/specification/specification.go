package specification

import "gorm.io/gorm"

// Specification is a composable query constraint applied to a GORM query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
