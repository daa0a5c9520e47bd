package character

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/condition"
	"github.com/cory-johannsen/charsheet/internal/game/damage"
)

// AddCondition applies a condition for duration rounds; condition.Permanent
// never expires.
func (c *Character) AddCondition(name condition.Name, duration int, source string) {
	c.Conditions.Add(condition.Condition{Name: name, Duration: duration, Source: source})
}

// RemoveCondition removes every condition named name.
func (c *Character) RemoveCondition(name condition.Name) {
	c.Conditions.Remove(name)
}

// HasCondition reports whether name is currently active.
func (c *Character) HasCondition(name condition.Name) bool {
	return c.Conditions.Has(name)
}

// EndRound advances condition durations by one round.
//
// Postcondition: Returns the names of the conditions that expired.
func (c *Character) EndRound() []condition.Name {
	expired := c.Conditions.Tick()
	for _, n := range expired {
		c.logger.Debug("condition expired", zap.String("condition", string(n)))
	}
	return expired
}

// TakeDamage routes damage through the hit-point engine.
//
// Postcondition: Returns the amount after resistance, immunity, and
// vulnerability were applied.
func (c *Character) TakeDamage(amount int, t damage.Type, source string) int {
	dealt := c.HP.TakeDamage(amount, t, source)
	c.logger.Debug("damage taken",
		zap.Int("incoming", amount),
		zap.Int("dealt", dealt),
		zap.String("damage_type", string(t)),
		zap.String("source", source),
		zap.Int("current", c.HP.Current()),
	)
	return dealt
}

// Heal restores hit points.
func (c *Character) Heal(amount int) {
	c.HP.Heal(amount)
}

// ResetTurn starts a fresh turn.
func (c *Character) ResetTurn() {
	c.Turn.ResetTurn()
}

// Move spends feet of this turn's movement.
func (c *Character) Move(feet int) bool {
	return c.Turn.Move(feet)
}
