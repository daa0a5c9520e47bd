// Package backend opens the snapshot store selected by configuration.
package backend

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/storage"
	"github.com/cory-johannsen/charsheet/internal/storage/postgres"
	"github.com/cory-johannsen/charsheet/internal/storage/redis"
	"github.com/cory-johannsen/charsheet/internal/storage/sqlite"
)

// ErrNoBackend is returned when storage.backend is "none".
var ErrNoBackend = errors.New("no storage backend configured")

// Open returns the SnapshotStore named by cfg.Storage.Backend.
//
// Precondition: cfg must have passed Validate.
// Postcondition: Returns an open store the caller must Close, ErrNoBackend,
// or a connection error.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.SnapshotStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		store storage.SnapshotStore
		err   error
	)
	switch cfg.Storage.Backend {
	case config.BackendNone, "":
		return nil, ErrNoBackend
	case config.BackendPostgres:
		store, err = postgres.OpenSnapshotRepository(ctx, cfg.Database)
	case config.BackendRedis:
		store, err = redis.Open(ctx, cfg.Redis)
	case config.BackendSQLite:
		store, err = sqlite.Open(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}
	logger.Debug("snapshot store opened", zap.String("backend", cfg.Storage.Backend))
	return store, nil
}
