// Package storage defines the persistence contract for character snapshots.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cory-johannsen/charsheet/internal/game/character"
)

// ErrSnapshotNotFound is returned when no snapshot is stored under an id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrInvalidSnapshot is returned when a snapshot has no id or no name.
var ErrInvalidSnapshot = errors.New("snapshot must have an id and a name")

// Summary is the listing view of a stored snapshot.
type Summary struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Level   int       `json:"level"`
	Class   string    `json:"class,omitempty"`
	TakenAt time.Time `json:"taken_at"`
}

// SnapshotStore persists character snapshots keyed by character id. Saving
// a snapshot for an id that already exists replaces it.
type SnapshotStore interface {
	Save(ctx context.Context, s character.Snapshot) error
	Get(ctx context.Context, id string) (character.Snapshot, error)
	// List returns summaries ordered by TakenAt, oldest first.
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Validate reports whether s can be stored.
func Validate(s character.Snapshot) error {
	if s.ID == "" || s.Name == "" {
		return ErrInvalidSnapshot
	}
	return nil
}

// Summarize builds the listing view of s.
func Summarize(s character.Snapshot) Summary {
	return Summary{ID: s.ID, Name: s.Name, Level: s.Level, Class: s.Class, TakenAt: s.TakenAt}
}
