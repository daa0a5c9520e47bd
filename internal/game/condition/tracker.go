// Package condition tracks timed status effects on a character and loads
// their static definitions.
package condition

import (
	"time"

	"github.com/cory-johannsen/charsheet/internal/game/action"
)

// Name is one of the standard status names.
type Name string

const (
	Blinded       Name = "blinded"
	Charmed       Name = "charmed"
	Deafened      Name = "deafened"
	Fatigued      Name = "fatigued"
	Frightened    Name = "frightened"
	Grappled      Name = "grappled"
	Incapacitated Name = "incapacitated"
	Invisible     Name = "invisible"
	Paralyzed     Name = "paralyzed"
	Petrified     Name = "petrified"
	Poisoned      Name = "poisoned"
	Prone         Name = "prone"
	Restrained    Name = "restrained"
	Stunned       Name = "stunned"
	Unconscious   Name = "unconscious"
	Exhaustion    Name = "exhaustion"
)

// Names lists every standard status name.
var Names = []Name{
	Blinded, Charmed, Deafened, Fatigued, Frightened, Grappled, Incapacitated, Invisible,
	Paralyzed, Petrified, Poisoned, Prone, Restrained, Stunned, Unconscious, Exhaustion,
}

// Valid reports whether n is a standard status name.
func (n Name) Valid() bool {
	for _, known := range Names {
		if n == known {
			return true
		}
	}
	return false
}

// Permanent is the duration of a condition that never expires on its own.
const Permanent = -1

// Condition is one applied status effect. Duration counts rounds remaining;
// Permanent (any negative value) never expires.
type Condition struct {
	Name      Name      `yaml:"name" json:"name"`
	Duration  int       `yaml:"duration" json:"duration"`
	AppliedAt time.Time `yaml:"applied_at,omitempty" json:"applied_at"`
	Source    string    `yaml:"source,omitempty" json:"source,omitempty"`
}

// IsPermanent reports whether the condition ignores Tick.
func (c Condition) IsPermanent() bool {
	return c.Duration < 0
}

// Tracker holds the applied conditions in the order they were added.
// Duplicates by name are allowed.
// It is not safe for concurrent use; the caller must serialise access.
// The zero value is an empty Tracker.
type Tracker struct {
	conditions []Condition
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add appends c. A zero AppliedAt is stamped with the current time.
func (t *Tracker) Add(c Condition) {
	if c.AppliedAt.IsZero() {
		c.AppliedAt = time.Now()
	}
	t.conditions = append(t.conditions, c)
}

// Remove deletes every condition named name.
//
// Postcondition: Has(name) is false.
func (t *Tracker) Remove(name Name) {
	kept := t.conditions[:0]
	for _, c := range t.conditions {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	t.conditions = kept
}

// Has reports whether any active condition is named name.
func (t *Tracker) Has(name Name) bool {
	for _, c := range t.Active() {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Tick decrements every numeric duration by one round and removes the
// conditions that reach zero. Permanent conditions are unchanged.
//
// Postcondition: Returns the names removed, in insertion order.
func (t *Tracker) Tick() []Name {
	var expired []Name
	kept := t.conditions[:0]
	for _, c := range t.conditions {
		if !c.IsPermanent() {
			c.Duration--
			if c.Duration <= 0 {
				expired = append(expired, c.Name)
				continue
			}
		}
		kept = append(kept, c)
	}
	t.conditions = kept
	return expired
}

// Active returns a copy of the conditions that are permanent or have rounds
// remaining, in insertion order.
func (t *Tracker) Active() []Condition {
	out := make([]Condition, 0, len(t.conditions))
	for _, c := range t.conditions {
		if c.IsPermanent() || c.Duration > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of tracked conditions, expired or not.
func (t *Tracker) Len() int {
	return len(t.conditions)
}

// Restricted reports whether any active condition's definition in reg blocks
// timing. Conditions without a definition restrict nothing.
func (t *Tracker) Restricted(reg *Registry, timing action.Timing) bool {
	for _, c := range t.Active() {
		if def, ok := reg.Get(c.Name); ok && def.Restricts(timing) {
			return true
		}
	}
	return false
}
