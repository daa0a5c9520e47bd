package ruleset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
)

// DefaultSpeed is the walking speed of a race that does not set one.
const DefaultSpeed = 30

// Subrace refines a race with further bonuses and features.
type Subrace struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	Description     string        `yaml:"description"`
	FixedModifiers  ability.Fixed `yaml:"fixed_modifiers"`
	ChoiceModifiers []int         `yaml:"choice_modifiers"`
	Languages       []string      `yaml:"languages"`
	LanguageChoices int           `yaml:"language_choices"`
	Features        []string      `yaml:"features"`
}

// AbilityBonus returns the subrace's fixed increase for k.
func (s *Subrace) AbilityBonus(k ability.Key) int {
	return s.FixedModifiers.AbilityBonus(k)
}

// Validate reports every problem with the subrace.
func (s *Subrace) Validate() error {
	var errs []error
	if s.ID == "" || s.Name == "" {
		errs = append(errs, fmt.Errorf("subrace %q: id and name must not be empty", s.ID))
	}
	errs = append(errs, validateFixed("subrace "+s.ID, s.FixedModifiers))
	return errors.Join(errs...)
}

// Race defines a playable race for character creation.
//
// Precondition: ID and Name must be non-empty after loading.
type Race struct {
	ID                  string        `yaml:"id"`
	Name                string        `yaml:"name"`
	Description         string        `yaml:"description"`
	FixedModifiers      ability.Fixed `yaml:"fixed_modifiers"`
	ChoiceModifiers     []int         `yaml:"choice_modifiers"`
	Languages           []string      `yaml:"languages"`
	LanguageChoices     int           `yaml:"language_choices"`
	Size                string        `yaml:"size"`
	Speed               int           `yaml:"speed"`
	WeaponProficiencies []string      `yaml:"weapon_proficiencies"`
	Features            []string      `yaml:"features"`
	Subraces            []*Subrace    `yaml:"subraces"`
}

// AbilityBonus returns the race's fixed increase for k.
func (r *Race) AbilityBonus(k ability.Key) int {
	return r.FixedModifiers.AbilityBonus(k)
}

// WalkingSpeed returns Speed, or DefaultSpeed when unset.
func (r *Race) WalkingSpeed() int {
	if r.Speed > 0 {
		return r.Speed
	}
	return DefaultSpeed
}

// HasSubraces reports whether the race offers any subrace.
func (r *Race) HasSubraces() bool {
	return len(r.Subraces) > 0
}

// Subrace returns the subrace with id, or (nil, false).
func (r *Race) Subrace(id string) (*Subrace, bool) {
	for _, s := range r.Subraces {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Validate reports every problem with the race and its subraces.
func (r *Race) Validate() error {
	var errs []error
	if r.ID == "" || r.Name == "" {
		errs = append(errs, fmt.Errorf("race %q: id and name must not be empty", r.ID))
	}
	if r.Speed < 0 {
		errs = append(errs, fmt.Errorf("race %q: speed must not be negative", r.ID))
	}
	errs = append(errs, validateFixed("race "+r.ID, r.FixedModifiers))
	seen := make(map[string]bool, len(r.Subraces))
	for _, s := range r.Subraces {
		if seen[s.ID] {
			errs = append(errs, fmt.Errorf("race %q: duplicate subrace %q", r.ID, s.ID))
		}
		seen[s.ID] = true
		errs = append(errs, s.Validate())
	}
	return errors.Join(errs...)
}

// LoadRaces reads all .yaml files in dir and parses each as a Race.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed races (may be empty slice) or a non-nil error.
func LoadRaces(dir string) ([]*Race, error) {
	return loadAll[Race](dir, "race")
}

// CheckChoices verifies that chosen bonuses fill the offered choice slots:
// every chosen value must consume one matching slot, and no ability may be
// chosen twice.
func CheckChoices(chosen ability.Bonuses, slots []int) error {
	if len(chosen) > len(slots) {
		return fmt.Errorf("%d ability choices made but only %d offered", len(chosen), len(slots))
	}
	remaining := append([]int(nil), slots...)
	sort.Ints(remaining)
	used := make(map[ability.Key]bool, len(chosen))
	for _, c := range chosen {
		if !c.Ability.Valid() {
			return fmt.Errorf("unknown ability %q", c.Ability)
		}
		if used[c.Ability] {
			return fmt.Errorf("ability %q chosen more than once", c.Ability)
		}
		used[c.Ability] = true
		i := sort.SearchInts(remaining, c.Value)
		if i == len(remaining) || remaining[i] != c.Value {
			return fmt.Errorf("no +%d choice available for %s", c.Value, c.Ability)
		}
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	return nil
}

func validateFixed(owner string, fixed ability.Fixed) error {
	var errs []error
	for k := range fixed {
		if !k.Valid() {
			errs = append(errs, fmt.Errorf("%s: unknown ability %q", owner, k))
		}
	}
	return errors.Join(errs...)
}
