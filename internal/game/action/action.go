// Package action defines actions and reactions granted by features, and the
// per-turn action economy that gates them.
package action

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/charsheet/internal/game/damage"
	"github.com/cory-johannsen/charsheet/internal/game/dice"
)

// Timing is the part of a turn an action consumes.
type Timing string

const (
	TimingAction      Timing = "action"
	TimingBonusAction Timing = "bonus_action"
	TimingReaction    Timing = "reaction"
	TimingMovement    Timing = "movement"
	TimingFree        Timing = "free"
)

// Timings lists every timing in turn order.
var Timings = []Timing{TimingAction, TimingBonusAction, TimingReaction, TimingMovement, TimingFree}

// Valid reports whether t is a known timing.
func (t Timing) Valid() bool {
	for _, known := range Timings {
		if t == known {
			return true
		}
	}
	return false
}

// Type classifies what an action does.
type Type string

const (
	TypeAttack   Type = "attack"
	TypeSpell    Type = "spell"
	TypeAbility  Type = "ability"
	TypeMovement Type = "movement"
)

// Valid reports whether t is a known action type.
func (t Type) Valid() bool {
	switch t {
	case TypeAttack, TypeSpell, TypeAbility, TypeMovement:
		return true
	}
	return false
}

// RollEffect names a d20 roll the action calls for.
type RollEffect struct {
	RollType    string `yaml:"roll_type" json:"roll_type"` // "attack" | "save" | "skill_check"
	Description string `yaml:"description" json:"description"`
}

// DamageRollEffect is a damage roll the action deals.
type DamageRollEffect struct {
	DamageRoll string      `yaml:"damage_roll" json:"damage_roll"`
	DamageType damage.Type `yaml:"damage_type" json:"damage_type"`
	Scaling    string      `yaml:"scaling,omitempty" json:"scaling,omitempty"` // "spell_level" | "character_level" | "none"
}

// ConditionEffect is a condition the action inflicts. Duration is in rounds;
// a negative duration lasts until dispelled.
type ConditionEffect struct {
	Condition string `yaml:"condition" json:"condition"`
	Duration  int    `yaml:"duration" json:"duration"`
}

// Effect groups what happens when an action is used.
type Effect struct {
	Rolls       []RollEffect       `yaml:"rolls,omitempty" json:"rolls,omitempty"`
	DamageRolls []DamageRollEffect `yaml:"damage_rolls,omitempty" json:"damage_rolls,omitempty"`
	Conditions  []ConditionEffect  `yaml:"conditions,omitempty" json:"conditions,omitempty"`
}

// Action is something a character can do on its turn.
type Action struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Type        Type   `yaml:"type" json:"type"`
	Timing      Timing `yaml:"timing" json:"timing"`
	Effect      Effect `yaml:"effect,omitempty" json:"effect,omitempty"`
}

// Validate reports every problem with the action.
func (a Action) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if !a.Type.Valid() {
		errs = append(errs, fmt.Errorf("action %q: unknown type %q", a.ID, a.Type))
	}
	if !a.Timing.Valid() {
		errs = append(errs, fmt.Errorf("action %q: unknown timing %q", a.ID, a.Timing))
	}
	for _, d := range a.Effect.DamageRolls {
		if _, err := dice.Parse(d.DamageRoll); err != nil {
			errs = append(errs, fmt.Errorf("action %q: %w", a.ID, err))
		}
		if !d.DamageType.Valid() {
			errs = append(errs, fmt.Errorf("action %q: unknown damage type %q", a.ID, d.DamageType))
		}
	}
	return errors.Join(errs...)
}

// Reaction is an action taken in response to a trigger.
type Reaction struct {
	Action  `yaml:",inline"`
	Trigger string `yaml:"trigger" json:"trigger"`
}

// Validate checks the embedded action and requires a reaction timing.
func (r Reaction) Validate() error {
	err := r.Action.Validate()
	if r.Timing != TimingReaction {
		err = errors.Join(err, fmt.Errorf("reaction %q: timing must be %q, got %q", r.ID, TimingReaction, r.Timing))
	}
	return err
}
