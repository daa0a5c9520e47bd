// Package feature defines racial traits, class features, feats, and other
// grants that modify a character.
package feature

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/action"
	"github.com/cory-johannsen/charsheet/internal/game/damage"
	"github.com/cory-johannsen/charsheet/internal/game/modifier"
)

// Type is where a feature comes from.
type Type string

const (
	TypeRace       Type = "race"
	TypeClass      Type = "class"
	TypeSubclass   Type = "subclass"
	TypeFeat       Type = "feat"
	TypeSpell      Type = "spell"
	TypeItem       Type = "item"
	TypeBackground Type = "background"
	TypeCondition  Type = "condition"
)

// Valid reports whether t is a known feature type.
func (t Type) Valid() bool {
	switch t {
	case TypeRace, TypeClass, TypeSubclass, TypeFeat, TypeSpell, TypeItem, TypeBackground, TypeCondition:
		return true
	}
	return false
}

// RechargeType is when spent uses come back.
type RechargeType string

const (
	RechargeLongRest  RechargeType = "long_rest"
	RechargeShortRest RechargeType = "short_rest"
	RechargeRound     RechargeType = "round"
	RechargeTurn      RechargeType = "turn"
	RechargeNever     RechargeType = "never"
)

// Valid reports whether r is a known recharge type.
func (r RechargeType) Valid() bool {
	switch r {
	case RechargeLongRest, RechargeShortRest, RechargeRound, RechargeTurn, RechargeNever:
		return true
	}
	return false
}

// Modifiers are the numeric grants of a feature.
//
// AbilityScores are applied once to base scores when the feature is applied.
// The remaining lists contribute live while the feature is active.
type Modifiers struct {
	AbilityScores  map[ability.Key]int                    `yaml:"ability_scores,omitempty" json:"ability_scores,omitempty"`
	AC             []*modifier.Modifier                   `yaml:"ac,omitempty" json:"ac,omitempty"`
	Initiative     []*modifier.Modifier                   `yaml:"initiative,omitempty" json:"initiative,omitempty"`
	SavingThrows   map[ability.Key][]*modifier.Modifier   `yaml:"saving_throws,omitempty" json:"saving_throws,omitempty"`
	SkillModifiers map[ability.Skill][]*modifier.Modifier `yaml:"skill_modifiers,omitempty" json:"skill_modifiers,omitempty"`
}

// Affects is what a passive effect changes.
type Affects struct {
	AC              int                  `yaml:"ac,omitempty" json:"ac,omitempty"`
	Initiative      []*modifier.Modifier `yaml:"initiative,omitempty" json:"initiative,omitempty"`
	Resistances     []damage.Resistance  `yaml:"resistances,omitempty" json:"resistances,omitempty"`
	Immunities      []damage.Type        `yaml:"immunities,omitempty" json:"immunities,omitempty"`
	Vulnerabilities []damage.Type        `yaml:"vulnerabilities,omitempty" json:"vulnerabilities,omitempty"`
}

// PassiveEffect applies whenever its feature is active.
type PassiveEffect struct {
	ID          string  `yaml:"id" json:"id"`
	Description string  `yaml:"description" json:"description"`
	Affects     Affects `yaml:"affects" json:"affects"`
}

// Uses tracks limited charges.
type Uses struct {
	Current      int          `yaml:"current" json:"current"`
	Maximum      int          `yaml:"maximum" json:"maximum"`
	RechargeType RechargeType `yaml:"recharge_type" json:"recharge_type"`
}

// Feature is a grant applied to a character.
type Feature struct {
	ID             string            `yaml:"id" json:"id"`
	Name           string            `yaml:"name" json:"name"`
	Type           Type              `yaml:"type" json:"type"`
	Description    string            `yaml:"description" json:"description"`
	Modifiers      Modifiers         `yaml:"modifiers,omitempty" json:"modifiers"`
	Actions        []action.Action   `yaml:"actions,omitempty" json:"actions,omitempty"`
	Reactions      []action.Reaction `yaml:"reactions,omitempty" json:"reactions,omitempty"`
	PassiveEffects []PassiveEffect   `yaml:"passive_effects,omitempty" json:"passive_effects,omitempty"`
	Active         bool              `yaml:"active" json:"active"`
	Uses           *Uses             `yaml:"uses,omitempty" json:"uses,omitempty"`
}

// Spend uses one charge.
//
// Postcondition: Returns false and changes nothing when the feature has no
// uses or none remain.
func (f *Feature) Spend() bool {
	if f.Uses == nil || f.Uses.Current <= 0 {
		return false
	}
	f.Uses.Current--
	return true
}

// Recharge restores uses to maximum when the recharge type matches.
func (f *Feature) Recharge(rt RechargeType) bool {
	if f.Uses == nil || f.Uses.RechargeType != rt || rt == RechargeNever {
		return false
	}
	f.Uses.Current = f.Uses.Maximum
	return true
}

// ArmorClassEntries returns the feature's AC modifiers followed by any
// passive AC bonuses.
func (f *Feature) ArmorClassEntries() []modifier.Entry {
	var out []modifier.Entry
	for _, m := range f.Modifiers.AC {
		if m != nil && m.Active {
			out = append(out, modifier.Entry{Label: m.Label, Value: m.Value})
		}
	}
	for _, p := range f.PassiveEffects {
		if p.Affects.AC != 0 {
			out = append(out, modifier.Entry{Label: f.Name, Value: p.Affects.AC})
		}
	}
	return out
}

// InitiativeEntries returns the feature's initiative modifiers, including
// those carried by passive effects.
func (f *Feature) InitiativeEntries() []modifier.Entry {
	var out []modifier.Entry
	add := func(mods []*modifier.Modifier) {
		for _, m := range mods {
			if m != nil && m.Active {
				out = append(out, modifier.Entry{Label: m.Label, Value: m.Value})
			}
		}
	}
	add(f.Modifiers.Initiative)
	for _, p := range f.PassiveEffects {
		add(p.Affects.Initiative)
	}
	return out
}

// SavingThrowBonus sums the active saving-throw modifiers for k.
func (f *Feature) SavingThrowBonus(k ability.Key) int {
	return modifier.Total(f.Modifiers.SavingThrows[k])
}

// SkillBonus sums the active skill modifiers for s.
func (f *Feature) SkillBonus(s ability.Skill) int {
	return modifier.Total(f.Modifiers.SkillModifiers[s])
}

// DamageResponse reports how the feature's passive effects treat damage of type t.
func (f *Feature) DamageResponse(t damage.Type) damage.Response {
	var r damage.Response
	for _, p := range f.PassiveEffects {
		for _, res := range p.Affects.Resistances {
			if res.DamageType == t {
				r = r.Merge(res.Kind)
			}
		}
		for _, dt := range p.Affects.Immunities {
			if dt == t {
				r = r.Merge(damage.KindImmunity)
			}
		}
		for _, dt := range p.Affects.Vulnerabilities {
			if dt == t {
				r = r.Merge(damage.KindVulnerability)
			}
		}
	}
	return r
}

// Clone returns a deep copy so per-character use counts and modifier toggles
// stay independent of the catalog record.
func (f *Feature) Clone() *Feature {
	cp := *f
	if f.Modifiers.AbilityScores != nil {
		cp.Modifiers.AbilityScores = make(map[ability.Key]int, len(f.Modifiers.AbilityScores))
		for k, v := range f.Modifiers.AbilityScores {
			cp.Modifiers.AbilityScores[k] = v
		}
	}
	cp.Modifiers.AC = cloneMods(f.Modifiers.AC)
	cp.Modifiers.Initiative = cloneMods(f.Modifiers.Initiative)
	if f.Modifiers.SavingThrows != nil {
		cp.Modifiers.SavingThrows = make(map[ability.Key][]*modifier.Modifier, len(f.Modifiers.SavingThrows))
		for k, v := range f.Modifiers.SavingThrows {
			cp.Modifiers.SavingThrows[k] = cloneMods(v)
		}
	}
	if f.Modifiers.SkillModifiers != nil {
		cp.Modifiers.SkillModifiers = make(map[ability.Skill][]*modifier.Modifier, len(f.Modifiers.SkillModifiers))
		for k, v := range f.Modifiers.SkillModifiers {
			cp.Modifiers.SkillModifiers[k] = cloneMods(v)
		}
	}
	cp.Actions = append([]action.Action(nil), f.Actions...)
	cp.Reactions = append([]action.Reaction(nil), f.Reactions...)
	if f.PassiveEffects != nil {
		cp.PassiveEffects = make([]PassiveEffect, len(f.PassiveEffects))
		for i, p := range f.PassiveEffects {
			p.Affects.Initiative = cloneMods(p.Affects.Initiative)
			p.Affects.Resistances = append([]damage.Resistance(nil), p.Affects.Resistances...)
			p.Affects.Immunities = append([]damage.Type(nil), p.Affects.Immunities...)
			p.Affects.Vulnerabilities = append([]damage.Type(nil), p.Affects.Vulnerabilities...)
			cp.PassiveEffects[i] = p
		}
	}
	if f.Uses != nil {
		u := *f.Uses
		cp.Uses = &u
	}
	return &cp
}

func cloneMods(mods []*modifier.Modifier) []*modifier.Modifier {
	if mods == nil {
		return nil
	}
	out := make([]*modifier.Modifier, 0, len(mods))
	for _, m := range mods {
		if m == nil {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return out
}

// Validate reports every problem with the feature.
func (f *Feature) Validate() error {
	var errs []error
	if f.ID == "" {
		errs = append(errs, errors.New("feature: id must not be empty"))
	}
	if f.Name == "" {
		errs = append(errs, fmt.Errorf("feature %q: name must not be empty", f.ID))
	}
	if !f.Type.Valid() {
		errs = append(errs, fmt.Errorf("feature %q: unknown type %q", f.ID, f.Type))
	}
	for k := range f.Modifiers.AbilityScores {
		if !k.Valid() {
			errs = append(errs, fmt.Errorf("feature %q: unknown ability %q", f.ID, k))
		}
	}
	mods := append(append([]*modifier.Modifier(nil), f.Modifiers.AC...), f.Modifiers.Initiative...)
	for _, list := range f.Modifiers.SavingThrows {
		mods = append(mods, list...)
	}
	for _, list := range f.Modifiers.SkillModifiers {
		mods = append(mods, list...)
	}
	for _, p := range f.PassiveEffects {
		mods = append(mods, p.Affects.Initiative...)
		for _, r := range p.Affects.Resistances {
			if err := r.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("feature %q: %w", f.ID, err))
			}
		}
		for _, dt := range append(append([]damage.Type(nil), p.Affects.Immunities...), p.Affects.Vulnerabilities...) {
			if !dt.Valid() {
				errs = append(errs, fmt.Errorf("feature %q: unknown damage type %q", f.ID, dt))
			}
		}
	}
	for _, m := range mods {
		if m == nil {
			continue
		}
		if err := m.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("feature %q: %w", f.ID, err))
		}
	}
	for _, a := range f.Actions {
		if err := a.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("feature %q: %w", f.ID, err))
		}
	}
	for _, r := range f.Reactions {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("feature %q: %w", f.ID, err))
		}
	}
	if u := f.Uses; u != nil {
		if u.Maximum < 0 || u.Current < 0 || u.Current > u.Maximum {
			errs = append(errs, fmt.Errorf("feature %q: uses %d/%d out of range", f.ID, u.Current, u.Maximum))
		}
		if !u.RechargeType.Valid() {
			errs = append(errs, fmt.Errorf("feature %q: unknown recharge type %q", f.ID, u.RechargeType))
		}
	}
	return errors.Join(errs...)
}

// Load reads every *.yaml file in dir as one Feature. A feature file that
// omits active is active.
//
// Postcondition: Returns features sorted by ID, or an error naming the first bad file.
func Load(dir string) ([]*Feature, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("feature: Load: reading %q: %w", dir, err)
	}
	var out []*Feature
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("feature: Load: reading %q: %w", path, err)
		}
		f := Feature{Active: true}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("feature: Load: parsing %q: %w", path, err)
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("feature: Load: %q: %w", path, err)
		}
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
