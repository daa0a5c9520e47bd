// Package storagetest holds the behavior every storage.SnapshotStore must show.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/storage"
)

// Snapshot builds a small character named name and captures it at takenAt.
func Snapshot(t *testing.T, name string, takenAt time.Time) character.Snapshot {
	t.Helper()
	c := character.New(name, zaptest.NewLogger(t))
	c.SetBaseScore(ability.Dexterity, 14)
	c.SetBaseScore(ability.Constitution, 12)
	c.SetLevel(2)
	s := c.Snapshot()
	s.TakenAt = takenAt.UTC().Truncate(time.Millisecond)
	s.CreatedAt = s.TakenAt
	return s
}

// Run exercises store against the SnapshotStore contract. newStore must
// return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) storage.SnapshotStore) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save and get", func(t *testing.T) {
		store := newStore(t)
		want := Snapshot(t, "Mialee", base)
		require.NoError(t, store.Save(ctx, want))

		got, err := store.Get(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Level, got.Level)
		assert.Equal(t, want.ArmorClass, got.ArmorClass)
		assert.Equal(t, want.HitPoints, got.HitPoints)
		assert.Equal(t, want.Abilities, got.Abilities)
		assert.True(t, want.TakenAt.Equal(got.TakenAt))
	})

	t.Run("get missing", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(ctx, "no-such-id")
		assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
	})

	t.Run("save replaces", func(t *testing.T) {
		store := newStore(t)
		s := Snapshot(t, "Lidda", base)
		require.NoError(t, store.Save(ctx, s))
		s.Level = 5
		s.TakenAt = base.Add(time.Hour)
		require.NoError(t, store.Save(ctx, s))

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Level)
		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 5, list[0].Level)
	})

	t.Run("list ordered by capture time", func(t *testing.T) {
		store := newStore(t)
		late := Snapshot(t, "Jozan", base.Add(2*time.Minute))
		early := Snapshot(t, "Ember", base)
		require.NoError(t, store.Save(ctx, late))
		require.NoError(t, store.Save(ctx, early))

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Ember", list[0].Name)
		assert.Equal(t, "Jozan", list[1].Name)
		assert.Equal(t, 2, list[0].Level)
	})

	t.Run("list empty", func(t *testing.T) {
		list, err := newStore(t).List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		s := Snapshot(t, "Krusk", base)
		require.NoError(t, store.Save(ctx, s))
		require.NoError(t, store.Delete(ctx, s.ID))
		_, err := store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
		assert.ErrorIs(t, store.Delete(ctx, s.ID), storage.ErrSnapshotNotFound)
	})

	t.Run("invalid snapshot rejected", func(t *testing.T) {
		store := newStore(t)
		assert.ErrorIs(t, store.Save(ctx, character.Snapshot{Name: "no id"}), storage.ErrInvalidSnapshot)
	})
}
