package condition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/action"
	"github.com/cory-johannsen/charsheet/internal/game/condition"
)

func TestRegistry_Get_Found(t *testing.T) {
	reg := condition.NewRegistry()
	def := &condition.ConditionDef{ID: condition.Prone, Name: "Prone"}
	reg.Register(def)
	got, ok := reg.Get(condition.Prone)
	require.True(t, ok)
	assert.Equal(t, def, got)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := condition.NewRegistry()
	_, ok := reg.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_All_SortedCopy(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: condition.Stunned, Name: "Stunned"})
	reg.Register(&condition.ConditionDef{ID: condition.Blinded, Name: "Blinded"})
	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, condition.Blinded, all[0].ID)
	all[0] = nil
	for _, d := range reg.All() {
		assert.NotNil(t, d, "registry must not be corrupted by mutating the returned slice")
	}
}

func TestRegistry_Register_OverwritesDuplicate(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: condition.Prone, Name: "First"})
	reg.Register(&condition.ConditionDef{ID: condition.Prone, Name: "Second"})
	got, ok := reg.Get(condition.Prone)
	require.True(t, ok)
	assert.Equal(t, "Second", got.Name, "second registration must overwrite the first")
}

func TestLoadDirectory_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
id: stunned
name: Stunned
description: "You are stunned."
restrict_timings:
  - action
  - reaction
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stunned.yaml"), []byte(yaml), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))

	reg, err := condition.LoadDirectory(dir)
	require.NoError(t, err)
	got, ok := reg.Get(condition.Stunned)
	require.True(t, ok)
	assert.Equal(t, "Stunned", got.Name)
	assert.Equal(t, []action.Timing{action.TimingAction, action.TimingReaction}, got.RestrictTimings)
	assert.True(t, got.Restricts(action.TimingAction))
	assert.False(t, got.Restricts(action.TimingFree))
}

func TestLoadDirectory_EmptyDir(t *testing.T) {
	reg, err := condition.LoadDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, reg.All())
}

func TestLoadDirectory_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(":::bad:::"), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_UnknownField_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prone.yaml"), []byte("id: prone\nname: Prone\nac_penalty: 2\n"), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_InvalidDefinition_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dazed.yaml"), []byte("id: dazed\nname: Dazed\nrestrict_timings: [sometimes]\n"), 0644))
	_, err := condition.LoadDirectory(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dazed")
	assert.Contains(t, err.Error(), "sometimes")
}

func TestLoadDirectory_NonexistentDir_ReturnsError(t *testing.T) {
	_, err := condition.LoadDirectory("/nonexistent/path/that/does/not/exist")
	assert.Error(t, err)
}

func TestLoadDirectory_RealConditions(t *testing.T) {
	reg, err := condition.LoadDirectory("../../../content/conditions")
	require.NoError(t, err)
	for _, id := range []condition.Name{condition.Incapacitated, condition.Paralyzed, condition.Stunned, condition.Unconscious, condition.Prone} {
		_, ok := reg.Get(id)
		assert.True(t, ok, "condition %q must be present", id)
	}
}

func TestPropertyRegistry_RegisterThenGet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.SampledFrom(condition.Names).Draw(t, "id")
		reg := condition.NewRegistry()
		def := &condition.ConditionDef{ID: id, Name: string(id)}
		reg.Register(def)
		got, ok := reg.Get(id)
		assert.True(t, ok, "registered condition must be retrievable")
		assert.Equal(t, def, got)
		assert.NoError(t, def.Validate())
	})
}
