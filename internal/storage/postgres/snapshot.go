package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/storage"
)

// Schema creates the snapshots table. It matches migrations/000001 and is
// exported for tests that do not run the migrate tool.
const Schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT         PRIMARY KEY,
		name       TEXT         NOT NULL,
		level      INTEGER      NOT NULL,
		class      TEXT         NOT NULL DEFAULT '',
		taken_at   TIMESTAMPTZ  NOT NULL,
		data       JSONB        NOT NULL,
		updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots (taken_at);
`

const readyTimeout = 5 * time.Second

// SnapshotRepository stores snapshots as JSONB rows.
type SnapshotRepository struct {
	db    *pgxpool.Pool
	owned *Pool
}

// NewSnapshotRepository creates a SnapshotRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save inserts s or replaces the row with the same id.
//
// Precondition: s.ID and s.Name must be non-empty.
// Postcondition: Returns nil once the row is written, or storage.ErrInvalidSnapshot.
func (r *SnapshotRepository) Save(ctx context.Context, s character.Snapshot) error {
	if err := storage.Validate(s); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO snapshots (id, name, level, class, taken_at, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, level = EXCLUDED.level, class = EXCLUDED.class,
			taken_at = EXCLUDED.taken_at, data = EXCLUDED.data, updated_at = NOW()`,
		s.ID, s.Name, s.Level, s.Class, s.TakenAt, data,
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Get retrieves the snapshot stored under id.
//
// Postcondition: Returns the snapshot or storage.ErrSnapshotNotFound.
func (r *SnapshotRepository) Get(ctx context.Context, id string) (character.Snapshot, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM snapshots WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return character.Snapshot{}, storage.ErrSnapshotNotFound
		}
		return character.Snapshot{}, fmt.Errorf("querying snapshot: %w", err)
	}
	var s character.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return character.Snapshot{}, fmt.Errorf("decoding snapshot %s: %w", id, err)
	}
	return s, nil
}

// List returns a summary of every stored snapshot ordered by taken_at.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SnapshotRepository) List(ctx context.Context) ([]storage.Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, level, class, taken_at
		FROM snapshots ORDER BY taken_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]storage.Summary, 0)
	for rows.Next() {
		var s storage.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Level, &s.Class, &s.TakenAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes the snapshot stored under id.
//
// Postcondition: Returns nil on success, storage.ErrSnapshotNotFound if no row was deleted.
func (r *SnapshotRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrSnapshotNotFound
	}
	return nil
}

// OpenSnapshotRepository connects a new pool and creates the snapshots
// table when Ready reports it missing. The repository owns the pool and closes it on Close.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a ready repository or a non-nil error.
func OpenSnapshotRepository(ctx context.Context, cfg config.DatabaseConfig) (*SnapshotRepository, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	switch err := pool.Ready(ctx, readyTimeout); {
	case errors.Is(err, ErrSchemaMissing):
		if _, err := pool.DB().Exec(ctx, Schema); err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating snapshots table: %w", err)
		}
	case err != nil:
		pool.Close()
		return nil, err
	}
	return &SnapshotRepository{db: pool.DB(), owned: pool}, nil
}

// Close releases the pool when the repository opened it itself.
func (r *SnapshotRepository) Close() error {
	if r.owned != nil {
		r.owned.Close()
	}
	return nil
}
