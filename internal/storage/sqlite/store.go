// Package sqlite provides a single-file SQLite snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id       TEXT    PRIMARY KEY,
	name     TEXT    NOT NULL,
	level    INTEGER NOT NULL,
	class    TEXT    NOT NULL DEFAULT '',
	taken_at INTEGER NOT NULL,
	data     TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots (taken_at);
`

// Store persists snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and creates the snapshots table.
//
// Precondition: path must be non-empty.
// Postcondition: Returns a ready Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts snap or replaces the row with the same id.
func (s *Store) Save(ctx context.Context, snap character.Snapshot) error {
	if err := storage.Validate(snap); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO snapshots (id, name, level, class, taken_at, data)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name, level = excluded.level, class = excluded.class,
	taken_at = excluded.taken_at, data = excluded.data`,
		snap.ID, snap.Name, snap.Level, snap.Class, toMillis(snap.TakenAt), string(data),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot stored under id or storage.ErrSnapshotNotFound.
func (s *Store) Get(ctx context.Context, id string) (character.Snapshot, error) {
	var data string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return character.Snapshot{}, storage.ErrSnapshotNotFound
		}
		return character.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	var snap character.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return character.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return snap, nil
}

// List returns summaries ordered by capture time.
func (s *Store) List(ctx context.Context) ([]storage.Summary, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, level, class, taken_at FROM snapshots ORDER BY taken_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]storage.Summary, 0)
	for rows.Next() {
		var sum storage.Summary
		var takenAt int64
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Level, &sum.Class, &takenAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		sum.TakenAt = fromMillis(takenAt)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the row for id or returns storage.ErrSnapshotNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return storage.ErrSnapshotNotFound
	}
	return nil
}
