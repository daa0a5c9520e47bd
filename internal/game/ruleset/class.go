package ruleset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
)

// ClassLevel lists what a class or subclass grants at one level.
type ClassLevel struct {
	Level               int             `yaml:"level"`
	Features            []string        `yaml:"features"`
	SkillProficiencies  []ability.Skill `yaml:"skill_proficiencies"`
	ArmorProficiencies  []string        `yaml:"armor_proficiencies"`
	WeaponProficiencies []string        `yaml:"weapon_proficiencies"`
}

type levels []ClassLevel

// featuresThrough returns the feature ids granted at levels 1..level in
// level order.
func (ls levels) featuresThrough(level int) []string {
	sorted := append(levels(nil), ls...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })
	var out []string
	for _, l := range sorted {
		if l.Level <= level {
			out = append(out, l.Features...)
		}
	}
	return out
}

func (ls levels) featuresAt(level int) []string {
	var out []string
	for _, l := range ls {
		if l.Level == level {
			out = append(out, l.Features...)
		}
	}
	return out
}

func (ls levels) weaponProficienciesThrough(level int) []string {
	var out []string
	for _, l := range ls {
		if l.Level <= level {
			out = append(out, l.WeaponProficiencies...)
		}
	}
	return out
}

func (ls levels) validate(owner string) error {
	var errs []error
	for _, l := range ls {
		if l.Level < 1 || l.Level > 20 {
			errs = append(errs, fmt.Errorf("%s: level %d out of range 1-20", owner, l.Level))
		}
		for _, s := range l.SkillProficiencies {
			if _, ok := s.Ability(); !ok {
				errs = append(errs, fmt.Errorf("%s: unknown skill %q", owner, s))
			}
		}
	}
	return errors.Join(errs...)
}

// Class defines a playable character class for character creation.
//
// Precondition: ID, Name, and HitDieSize must be set after loading.
type Class struct {
	ID                       string          `yaml:"id"`
	Name                     string          `yaml:"name"`
	Description              string          `yaml:"description"`
	HitDieSize               int             `yaml:"hit_die_size"`
	PrimaryAbility           ability.Key     `yaml:"primary_ability"`
	SavingThrowProficiencies []ability.Key   `yaml:"saving_throw_proficiencies"`
	SkillProficiencies       []ability.Skill `yaml:"skill_proficiencies"`
	SkillChoices             int             `yaml:"skill_choices"`
	ArmorProficiencies       []string        `yaml:"armor_proficiencies"`
	WeaponProficiencies      []string        `yaml:"weapon_proficiencies"`
	ToolProficiencies        []string        `yaml:"tool_proficiencies"`
	SubclassLevel            int             `yaml:"subclass_level"`
	Levels                   []ClassLevel    `yaml:"levels"`
}

// FeaturesAt returns the feature ids gained exactly at level.
func (c *Class) FeaturesAt(level int) []string {
	return levels(c.Levels).featuresAt(level)
}

// FeaturesThrough returns the feature ids gained at levels 1..level.
func (c *Class) FeaturesThrough(level int) []string {
	return levels(c.Levels).featuresThrough(level)
}

// WeaponProficienciesAt returns the base weapon proficiencies plus those
// granted by levels up to level.
func (c *Class) WeaponProficienciesAt(level int) []string {
	return append(append([]string(nil), c.WeaponProficiencies...), levels(c.Levels).weaponProficienciesThrough(level)...)
}

// ProficientSave reports whether the class grants proficiency in k's saving throw.
func (c *Class) ProficientSave(k ability.Key) bool {
	for _, s := range c.SavingThrowProficiencies {
		if s == k {
			return true
		}
	}
	return false
}

// Validate reports every problem with the class.
func (c *Class) Validate() error {
	var errs []error
	if c.ID == "" || c.Name == "" {
		errs = append(errs, fmt.Errorf("class %q: id and name must not be empty", c.ID))
	}
	switch c.HitDieSize {
	case 6, 8, 10, 12:
	default:
		errs = append(errs, fmt.Errorf("class %q: hit_die_size must be 6, 8, 10 or 12, got %d", c.ID, c.HitDieSize))
	}
	if c.PrimaryAbility != "" && !c.PrimaryAbility.Valid() {
		errs = append(errs, fmt.Errorf("class %q: unknown primary ability %q", c.ID, c.PrimaryAbility))
	}
	for _, k := range c.SavingThrowProficiencies {
		if !k.Valid() {
			errs = append(errs, fmt.Errorf("class %q: unknown saving throw %q", c.ID, k))
		}
	}
	for _, s := range c.SkillProficiencies {
		if _, ok := s.Ability(); !ok {
			errs = append(errs, fmt.Errorf("class %q: unknown skill %q", c.ID, s))
		}
	}
	if c.SkillChoices < 0 || c.SkillChoices > len(c.SkillProficiencies) {
		errs = append(errs, fmt.Errorf("class %q: skill_choices %d exceeds %d listed skills", c.ID, c.SkillChoices, len(c.SkillProficiencies)))
	}
	if c.SubclassLevel < 0 || c.SubclassLevel > 20 {
		errs = append(errs, fmt.Errorf("class %q: subclass_level %d out of range", c.ID, c.SubclassLevel))
	}
	errs = append(errs, levels(c.Levels).validate("class "+c.ID))
	return errors.Join(errs...)
}

// LoadClasses reads all .yaml files in dir and parses each as a Class.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*Class, error) {
	return loadAll[Class](dir, "class")
}
