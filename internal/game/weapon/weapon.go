// Package weapon provides weapon records, their YAML loader, and attack
// derivation for main-hand and off-hand use.
package weapon

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/damage"
	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/modifier"
)

// Category is melee or ranged.
type Category string

const (
	CategoryMelee  Category = "melee"
	CategoryRanged Category = "ranged"
)

// Type is the proficiency group a weapon belongs to.
type Type string

const (
	TypeSimpleMelee   Type = "simple_melee"
	TypeMartialMelee  Type = "martial_melee"
	TypeSimpleRanged  Type = "simple_ranged"
	TypeMartialRanged Type = "martial_ranged"
)

// Property is a weapon property flag.
type Property string

const (
	Finesse    Property = "finesse"
	Heavy      Property = "heavy"
	Light      Property = "light"
	Loading    Property = "loading"
	Range      Property = "range"
	Reach      Property = "reach"
	Thrown     Property = "thrown"
	TwoHanded  Property = "two_handed"
	Versatile  Property = "versatile"
	Ammunition Property = "ammunition"
)

var validProperties = map[Property]struct{}{
	Finesse: {}, Heavy: {}, Light: {}, Loading: {}, Range: {},
	Reach: {}, Thrown: {}, TwoHanded: {}, Versatile: {}, Ammunition: {},
}

var validTypes = map[Type]struct{}{
	TypeSimpleMelee: {}, TypeMartialMelee: {}, TypeSimpleRanged: {}, TypeMartialRanged: {},
}

// Weapon is an owned or catalog weapon record.
type Weapon struct {
	ID             string               `yaml:"id"`
	Name           string               `yaml:"name"`
	Category       Category             `yaml:"category"`
	Type           Type                 `yaml:"type"`
	Prototype      string               `yaml:"prototype"`
	DamageDice     string               `yaml:"damage_dice"`
	VersatileDice  string               `yaml:"versatile_dice"`
	DamageType     damage.Type          `yaml:"damage_type"`
	DamageModifier ability.Key          `yaml:"damage_modifier"`
	Properties     []Property           `yaml:"properties"`
	Modifiers      *modifier.Collection `yaml:"modifiers"`
}

// Has reports whether the weapon carries property p.
func (w *Weapon) Has(p Property) bool {
	for _, have := range w.Properties {
		if have == p {
			return true
		}
	}
	return false
}

// Clone returns a copy with its own modifier collection and property slice.
func (w *Weapon) Clone() *Weapon {
	cp := *w
	cp.Properties = append([]Property(nil), w.Properties...)
	cp.Modifiers = w.Modifiers.Clone()
	return &cp
}

// Validate checks the record's invariants, including that its damage dice parse.
//
// Precondition: w is non-nil.
// Postcondition: Returns nil iff all fields are valid.
func (w *Weapon) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if w.Category != CategoryMelee && w.Category != CategoryRanged {
		errs = append(errs, fmt.Errorf("category %q must be melee or ranged", w.Category))
	}
	if _, ok := validTypes[w.Type]; !ok {
		errs = append(errs, fmt.Errorf("type %q is not a valid weapon type", w.Type))
	}
	if _, err := dice.Parse(w.DamageDice); err != nil {
		errs = append(errs, fmt.Errorf("damage_dice: %w", err))
	}
	if w.VersatileDice != "" {
		if _, err := dice.Parse(w.VersatileDice); err != nil {
			errs = append(errs, fmt.Errorf("versatile_dice: %w", err))
		}
		if !w.Has(Versatile) {
			errs = append(errs, errors.New("versatile_dice requires the versatile property"))
		}
	}
	if !w.DamageType.Valid() {
		errs = append(errs, fmt.Errorf("damage_type %q is not a valid damage type", w.DamageType))
	}
	if !w.DamageModifier.Valid() {
		errs = append(errs, fmt.Errorf("damage_modifier %q is not an ability", w.DamageModifier))
	}
	for _, p := range w.Properties {
		if _, ok := validProperties[p]; !ok {
			errs = append(errs, fmt.Errorf("unknown property %q", p))
		}
	}
	for _, m := range w.Modifiers.All() {
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q: %w", w.ID, errors.Join(errs...))
	}
	return nil
}

// Load reads every *.yaml file in dir as a Weapon and validates it.
//
// Precondition: dir is a readable directory path.
// Postcondition: Returns all valid weapons or the first encountered error.
func Load(dir string) ([]*Weapon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("weapon: Load: cannot read directory %q: %w", dir, err)
	}
	var out []*Weapon
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("weapon: Load: cannot read file %q: %w", path, err)
		}
		var w Weapon
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&w); err != nil {
			return nil, fmt.Errorf("weapon: Load: cannot parse file %q: %w", path, err)
		}
		if w.Modifiers == nil {
			w.Modifiers = modifier.NewCollection()
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("weapon: Load: invalid weapon in %q: %w", path, err)
		}
		out = append(out, &w)
	}
	return out, nil
}
