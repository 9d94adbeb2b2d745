// Package models holds the records logomatch keeps about matching runs.
package models

import (
	"time"
)

// Model is a persisted record identified by a UUID and numbered in insertion order.
type Model interface {
	ID() string
	Sequence() int
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Repository stores one kind of [Model].
//
// Find accepts either a full ID or a unique ID prefix, as printed by the
// history commands. List understands the criteria keys documented on each
// implementation and ignores the rest.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Find(idOrPrefix string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
