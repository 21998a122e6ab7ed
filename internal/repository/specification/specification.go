package specification

import "gorm.io/gorm"

// Specification narrows a case-archive query. Implementations compose by
// chaining Apply calls.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
