// Package armor provides armor and shield records, their YAML loader, and
// the armor-class engine.
package armor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/modifier"
)

// Type classifies a worn item for DEX-capping purposes.
type Type string

const (
	TypeNone   Type = "none"
	TypeLight  Type = "light"
	TypeMedium Type = "medium"
	TypeHeavy  Type = "heavy"
	TypeShield Type = "shield"
)

var validTypes = map[Type]struct{}{
	TypeNone: {}, TypeLight: {}, TypeMedium: {}, TypeHeavy: {}, TypeShield: {},
}

// Armor is a body armor or shield record. Shields use Type == TypeShield and
// only BaseAC and Modifiers are read from them.
type Armor struct {
	ID                  string               `yaml:"id"`
	Name                string               `yaml:"name"`
	Type                Type                 `yaml:"type"`
	BaseAC              int                  `yaml:"base_ac"`
	AllowsDexBonus      bool                 `yaml:"allows_dex_bonus"`
	MaxDexBonus         *int                 `yaml:"max_dex_bonus"`
	StrengthRequirement int                  `yaml:"strength_requirement"`
	StealthDisadvantage bool                 `yaml:"stealth_disadvantage"`
	Modifiers           *modifier.Collection `yaml:"modifiers"`
}

// IsShield reports whether the record is a shield.
func (a *Armor) IsShield() bool {
	return a.Type == TypeShield
}

// DexContribution applies this armor's DEX rule to a DEX modifier:
// zero when DEX is disallowed, capped when MaxDexBonus is set, otherwise
// the full modifier.
func (a *Armor) DexContribution(dexMod int) int {
	if !a.AllowsDexBonus {
		return 0
	}
	if a.MaxDexBonus != nil && dexMod > *a.MaxDexBonus {
		return *a.MaxDexBonus
	}
	return dexMod
}

// Clone returns a copy with its own modifier collection.
func (a *Armor) Clone() *Armor {
	cp := *a
	if a.MaxDexBonus != nil {
		v := *a.MaxDexBonus
		cp.MaxDexBonus = &v
	}
	cp.Modifiers = a.Modifiers.Clone()
	return &cp
}

// Validate checks the record's invariants.
//
// Precondition: a is non-nil.
// Postcondition: Returns nil iff the record is well-formed.
func (a *Armor) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, ok := validTypes[a.Type]; !ok {
		errs = append(errs, fmt.Errorf("type %q is not a valid armor type", a.Type))
	}
	if a.BaseAC < 0 {
		errs = append(errs, errors.New("base_ac must be >= 0"))
	}
	if a.MaxDexBonus != nil && *a.MaxDexBonus < 0 {
		errs = append(errs, errors.New("max_dex_bonus must be >= 0"))
	}
	if a.IsShield() && a.MaxDexBonus != nil {
		errs = append(errs, errors.New("shields must not set max_dex_bonus"))
	}
	for _, m := range a.Modifiers.All() {
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor %q: %w", a.ID, errors.Join(errs...))
	}
	return nil
}

// Load reads every *.yaml file in dir as an Armor record and validates it.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all records or the first error encountered.
func Load(dir string) ([]*Armor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("armor: Load: reading %q: %w", dir, err)
	}
	var out []*Armor
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("armor: Load: reading %q: %w", path, err)
		}
		var a Armor
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&a); err != nil {
			return nil, fmt.Errorf("armor: Load: parsing %q: %w", path, err)
		}
		if a.Modifiers == nil {
			a.Modifiers = modifier.NewCollection()
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("armor: Load: %q: %w", path, err)
		}
		out = append(out, &a)
	}
	return out, nil
}
