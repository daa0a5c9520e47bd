package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/storage"
)

const sheet = `
name: Lidda
level: 2
race: human
class: wizard
abilities:
  DEX: 15
  CON: 12
weapons: [dagger]
equipped:
  main_hand: dagger
`

func writeSheet(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lidda.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sheet), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--content", "../../content"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("CHARSHEET_LOGGING_LEVEL", "error")
	t.Setenv("CHARSHEET_STORAGE_BACKEND", "sqlite")
	t.Setenv("CHARSHEET_SQLITE_PATH", filepath.Join(t.TempDir(), "sheets.db"))
}

func TestShow(t *testing.T) {
	t.Setenv("CHARSHEET_LOGGING_LEVEL", "error")
	out, err := run(t, "show", writeSheet(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Lidda")
	assert.Contains(t, out, "--- Abilities ---")
}

func TestSnapshot(t *testing.T) {
	t.Setenv("CHARSHEET_LOGGING_LEVEL", "error")
	out, err := run(t, "snapshot", writeSheet(t))
	require.NoError(t, err)
	var snap character.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "Lidda", snap.Name)
	assert.Equal(t, 2, snap.Level)
}

func TestSaveGetListDelete(t *testing.T) {
	useSQLite(t)
	path := writeSheet(t)

	out, err := run(t, "save", path)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, "get", id)
	require.NoError(t, err)
	var snap character.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, id, snap.ID)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Lidda")

	_, err = run(t, "delete", id)
	require.NoError(t, err)
	_, err = run(t, "get", id)
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestStorageCommandsNeedBackend(t *testing.T) {
	t.Setenv("CHARSHEET_LOGGING_LEVEL", "error")
	t.Setenv("CHARSHEET_STORAGE_BACKEND", "none")
	_, err := run(t, "list")
	assert.ErrorContains(t, err, "no storage backend")
}

func TestShow_BadSheet(t *testing.T) {
	t.Setenv("CHARSHEET_LOGGING_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nrace: tiefling\n"), 0644))
	_, err := run(t, "show", path)
	assert.Error(t, err)

	_, err = run(t, "show")
	assert.Error(t, err)
}
