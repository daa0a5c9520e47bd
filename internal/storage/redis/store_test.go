package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/storage"
	"github.com/cory-johannsen/charsheet/internal/storage/redis"
	"github.com/cory-johannsen/charsheet/internal/storage/storagetest"
	"github.com/cory-johannsen/charsheet/internal/testutil"
)

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.SnapshotStore {
		_, client := testutil.NewRedis(t)
		return redis.New(client, "test")
	})
}

func TestStore_KeysUsePrefix(t *testing.T) {
	mr, client := testutil.NewRedis(t)
	store := redis.New(client, "sheets")
	s := storagetest.Snapshot(t, "Vadania", time.Now())
	require.NoError(t, store.Save(context.Background(), s))

	assert.True(t, mr.Exists("sheets:snapshot:"+s.ID))
	members, err := mr.ZMembers("sheets:snapshots")
	require.NoError(t, err)
	assert.Equal(t, []string{s.ID}, members)
}

func TestStore_ListSkipsDanglingIndexEntries(t *testing.T) {
	mr, client := testutil.NewRedis(t)
	store := redis.New(client, "test")
	s := storagetest.Snapshot(t, "Soveliss", time.Now())
	require.NoError(t, store.Save(context.Background(), s))
	mr.Del("test:snapshot:" + s.ID)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpen(t *testing.T) {
	mr, _ := testutil.NewRedis(t)
	store, err := redis.Open(context.Background(), config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test"})
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	mr.Close()
	_, err = redis.Open(context.Background(), config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test"})
	assert.Error(t, err)
}
