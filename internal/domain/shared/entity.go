package shared

import "time"

// BaseEntity carries the identity and timestamps every persisted record has.
// ID stays zero until the row is inserted.
type BaseEntity struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a not yet persisted entity with the current time
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{CreatedAt: now, UpdatedAt: now}
}
