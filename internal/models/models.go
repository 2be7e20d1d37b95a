package models

import (
	"time"
)

// Model is the base contract for records persisted in the track cache.
type Model interface {
	ID() string           // unique record identifier
	CreatedAt() time.Time // when the record entered the cache
	UpdatedAt() time.Time // last metadata, lyrics or genre update
	Validate() error      // structural validity before persistence
}

// Repository is the generic data-access surface the track cache implements.
// Deletes are soft: removed records drop out of queries but keep their row.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
