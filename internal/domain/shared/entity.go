package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is what every aggregate exposes: a stable identity plus the
// bookkeeping timestamps.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity is embedded by domain entities to satisfy Entity.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh UUID and stamps both timestamps with
// the same instant.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *BaseEntity) GetID() uuid.UUID { return e.ID }

func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }

func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// Touch marks the entity as modified now. Mutating operations call it
// before persisting.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
