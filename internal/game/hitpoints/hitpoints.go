// Package hitpoints tracks current, maximum, and temporary hit points,
// applies incoming damage through resistances, and keeps death-save state.
package hitpoints

import (
	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/damage"
	"github.com/cory-johannsen/charsheet/internal/game/dice"
)

// DefaultHitDie is used when the owner has no class.
const DefaultHitDie = 6

// MaxDeathSaves is the count at which successes stabilize or failures kill.
const MaxDeathSaves = 3

// Owner is the read-only view of a character the engine derives from.
type Owner interface {
	ability.Reader
	// HitDieSize returns the class hit die, or 0 when no class is set.
	HitDieSize() int
	// DamageResponse reports how the owner responds to damage of type t.
	DamageResponse(t damage.Type) damage.Response
}

// Engine holds hit-point state. Maximum is recomputed from the hit-die
// values and the live CON modifier on every read.
//
// Invariant on read: 0 <= Current() <= Maximum() (when Maximum() >= 0) and Temporary() >= 0.
type Engine struct {
	owner Owner

	current   int
	temporary int
	rolls     []int
	successes int
	failures  int
	conscious bool
}

// New creates an Engine with one hit die per level and current HP at maximum.
// Level 1 takes the die maximum; later levels take the fixed average.
//
// Precondition: owner must be non-nil.
func New(owner Owner, level int) *Engine {
	e := &Engine{owner: owner, conscious: true}
	e.InitializeHitDice(level)
	return e
}

// HitDieSize returns the owner's hit die, or DefaultHitDie.
func (e *Engine) HitDieSize() int {
	if size := e.owner.HitDieSize(); size > 0 {
		return size
	}
	return DefaultHitDie
}

// InitializeHitDice replaces the hit-die values for level levels and
// restores full health.
func (e *Engine) InitializeHitDice(level int) {
	e.rolls = e.rolls[:0]
	size := e.HitDieSize()
	for i := 1; i <= level; i++ {
		if i == 1 {
			e.rolls = append(e.rolls, size)
			continue
		}
		e.rolls = append(e.rolls, dice.HitDieAverage(size))
	}
	e.ResetHealth()
}

// AddLevelHitDie appends one hit-die value for a new level. A nil roll uses
// the fixed average. Current HP rises by the value plus the CON modifier.
func (e *Engine) AddLevelHitDie(roll *int) int {
	value := dice.HitDieAverage(e.HitDieSize())
	if roll != nil {
		value = *roll
	}
	e.rolls = append(e.rolls, value)
	e.current = e.Current() + value + e.owner.Modifier(ability.Constitution)
	if e.current < 0 {
		e.current = 0
	}
	return value
}

// HitDiceRolls returns a copy of the per-level hit-die values.
func (e *Engine) HitDiceRolls() []int {
	return append([]int(nil), e.rolls...)
}

// Maximum is sum(hit dice) + CON modifier * levels.
func (e *Engine) Maximum() int {
	if len(e.rolls) == 0 {
		return 0
	}
	total := 0
	for _, r := range e.rolls {
		total += r
	}
	return total + e.owner.Modifier(ability.Constitution)*len(e.rolls)
}

// Current returns current HP clamped to [0, Maximum()].
func (e *Engine) Current() int {
	c := e.current
	if m := e.Maximum(); c > m {
		c = m
	}
	if c < 0 {
		c = 0
	}
	return c
}

// Temporary returns the temporary HP pool.
func (e *Engine) Temporary() int { return e.temporary }

// IsConscious reports the consciousness flag.
func (e *Engine) IsConscious() bool { return e.conscious }

// DeathSaveSuccesses returns the recorded successes.
func (e *Engine) DeathSaveSuccesses() int { return e.successes }

// DeathSaveFailures returns the recorded failures.
func (e *Engine) DeathSaveFailures() int { return e.failures }

// IsStable is true when conscious, above 0 HP, or short of three failures.
func (e *Engine) IsStable() bool {
	return e.conscious || e.Current() > 0 || e.failures < MaxDeathSaves
}

// IsDead is true at 0 HP with three or more failures.
func (e *Engine) IsDead() bool {
	return e.Current() == 0 && e.failures >= MaxDeathSaves
}

// TakeDamage applies amount of damage type t after the owner's damage
// response. Temporary HP absorbs first. Reaching 0 HP clears consciousness.
// The source is informational only.
//
// Postcondition: Returns the damage remaining after resistances, before temporary HP.
func (e *Engine) TakeDamage(amount int, t damage.Type, source string) int {
	final := damage.Adjust(amount, e.owner.DamageResponse(t))
	remaining := final
	if e.temporary > 0 && remaining > 0 {
		absorbed := min(e.temporary, remaining)
		e.temporary -= absorbed
		remaining -= absorbed
	}
	e.current = e.Current() - remaining
	if e.current < 0 {
		e.current = 0
	}
	if e.current == 0 {
		e.conscious = false
	}
	return final
}

// Heal raises current HP, capped at maximum. Any result above 0 restores
// consciousness and clears both death-save counters.
func (e *Engine) Heal(amount int) {
	e.current = min(e.Maximum(), e.Current()+amount)
	if e.current < 0 {
		e.current = 0
	}
	if e.current > 0 {
		e.conscious = true
		e.successes = 0
		e.failures = 0
	}
}

// AddTemporaryHP keeps the larger of the existing and offered pools.
func (e *Engine) AddTemporaryHP(amount int) {
	e.temporary = max(e.temporary, amount)
}

// RecordDeathSave adds one success or failure, capped at MaxDeathSaves.
func (e *Engine) RecordDeathSave(success bool) {
	if success {
		e.successes = min(MaxDeathSaves, e.successes+1)
		return
	}
	e.failures = min(MaxDeathSaves, e.failures+1)
}

// ResetHealth restores full HP, clears temporary HP and death saves, and
// sets the character conscious.
func (e *Engine) ResetHealth() {
	e.current = e.Maximum()
	if e.current < 0 {
		e.current = 0
	}
	e.temporary = 0
	e.conscious = true
	e.successes = 0
	e.failures = 0
}

// State is the serializable form of the engine.
type State struct {
	Current            int   `json:"current"`
	Maximum            int   `json:"maximum"`
	Temporary          int   `json:"temporary"`
	HitDiceRolls       []int `json:"hit_dice_rolls"`
	DeathSaveSuccesses int   `json:"death_save_successes"`
	DeathSaveFailures  int   `json:"death_save_failures"`
	Conscious          bool  `json:"conscious"`
	Stable             bool  `json:"stable"`
	Dead               bool  `json:"dead"`
}

// State captures the engine's current values.
func (e *Engine) State() State {
	return State{
		Current:            e.Current(),
		Maximum:            e.Maximum(),
		Temporary:          e.temporary,
		HitDiceRolls:       e.HitDiceRolls(),
		DeathSaveSuccesses: e.successes,
		DeathSaveFailures:  e.failures,
		Conscious:          e.conscious,
		Stable:             e.IsStable(),
		Dead:               e.IsDead(),
	}
}
