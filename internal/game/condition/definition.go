package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/action"
)

// ConditionDef is the static definition of a condition, loaded from YAML.
type ConditionDef struct {
	ID              Name            `yaml:"id"`
	Name            string          `yaml:"name"`
	Description     string          `yaml:"description"`
	RestrictTimings []action.Timing `yaml:"restrict_timings"`
}

// Restricts reports whether the condition blocks actions of timing t.
func (d *ConditionDef) Restricts(t action.Timing) bool {
	for _, r := range d.RestrictTimings {
		if r == t {
			return true
		}
	}
	return false
}

// Validate reports every problem with the definition.
func (d *ConditionDef) Validate() error {
	var errs []error
	if !d.ID.Valid() {
		errs = append(errs, fmt.Errorf("unknown condition id %q", d.ID))
	}
	if d.Name == "" {
		errs = append(errs, fmt.Errorf("condition %q: name must not be empty", d.ID))
	}
	for _, t := range d.RestrictTimings {
		if !t.Valid() {
			errs = append(errs, fmt.Errorf("condition %q: unknown timing %q", d.ID, t))
		}
	}
	return errors.Join(errs...)
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[Name]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Name]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
// A nil registry finds nothing.
func (r *Registry) Get(id Name) (*ConditionDef, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.defs[id]
	return d, ok
}

// All returns the registered ConditionDefs sorted by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses and validates each as
// a ConditionDef, and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
