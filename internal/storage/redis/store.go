// Package redis stores character snapshots in Redis: one JSON string per
// snapshot plus a sorted-set index scored by capture time.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/storage"
)

// Store is a storage.SnapshotStore backed by Redis.
type Store struct {
	client *goredis.Client
	prefix string
}

// New wraps an existing client. Every key is namespaced under prefix.
//
// Precondition: client must be non-nil; prefix must be non-empty.
func New(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Open dials Redis using cfg and verifies the connection.
//
// Postcondition: Returns a connected Store or a non-nil error.
func Open(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return New(client, cfg.KeyPrefix), nil
}

func (s *Store) snapshotKey(id string) string {
	return s.prefix + ":snapshot:" + id
}

func (s *Store) indexKey() string {
	return s.prefix + ":snapshots"
}

// Save writes s and indexes it by TakenAt in one transaction.
//
// Precondition: s.ID and s.Name must be non-empty.
func (s *Store) Save(ctx context.Context, snap character.Snapshot) error {
	if err := storage.Validate(snap); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.snapshotKey(snap.ID), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), goredis.Z{Score: float64(snap.TakenAt.UnixMilli()), Member: snap.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Get retrieves the snapshot stored under id.
//
// Postcondition: Returns the snapshot or storage.ErrSnapshotNotFound.
func (s *Store) Get(ctx context.Context, id string) (character.Snapshot, error) {
	data, err := s.client.Get(ctx, s.snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return character.Snapshot{}, storage.ErrSnapshotNotFound
		}
		return character.Snapshot{}, fmt.Errorf("getting snapshot: %w", err)
	}
	var snap character.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return character.Snapshot{}, fmt.Errorf("decoding snapshot %s: %w", id, err)
	}
	return snap, nil
}

// List walks the index in score order. Index entries whose value has
// vanished are skipped.
func (s *Store) List(ctx context.Context) ([]storage.Summary, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading snapshot index: %w", err)
	}
	out := make([]storage.Summary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.snapshotKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading snapshots: %w", err)
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var snap character.Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot %s: %w", ids[i], err)
		}
		out = append(out, storage.Summarize(snap))
	}
	return out, nil
}

// Delete removes the snapshot and its index entry.
//
// Postcondition: Returns nil on success, storage.ErrSnapshotNotFound if nothing was stored.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.snapshotKey(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if del.Val() == 0 {
		return storage.ErrSnapshotNotFound
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
