package character

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/action"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
)

// ApplyFeature appends f to the feature list, adds its ability-score deltas
// to the base scores, and appends its actions and reactions to the pools.
// Applying the same feature twice applies it twice.
//
// Precondition: f should be a per-character copy; a nil f is ignored.
func (c *Character) ApplyFeature(f *feature.Feature) {
	if f == nil {
		return
	}
	c.features = append(c.features, f)
	for _, k := range ability.Keys {
		if delta := f.Modifiers.AbilityScores[k]; delta != 0 {
			c.Abilities.AdjustBase(k, delta)
		}
	}
	c.actions = append(c.actions, f.Actions...)
	c.reactions = append(c.reactions, f.Reactions...)
	c.logger.Debug("feature applied",
		zap.String("feature_id", f.ID),
		zap.Int("actions", len(f.Actions)),
		zap.Int("reactions", len(f.Reactions)),
	)
}

// RemoveFeature drops every feature with id from the feature list. Ability
// deltas and granted actions stay in place.
//
// Postcondition: Returns true iff at least one feature was removed.
func (c *Character) RemoveFeature(id string) bool {
	kept := c.features[:0]
	for _, f := range c.features {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	removed := len(kept) != len(c.features)
	for i := len(kept); i < len(c.features); i++ {
		c.features[i] = nil
	}
	c.features = kept
	return removed
}

// Features returns the applied features in application order.
func (c *Character) Features() []*feature.Feature {
	out := make([]*feature.Feature, len(c.features))
	copy(out, c.features)
	return out
}

// Feature returns the first applied feature with id.
func (c *Character) Feature(id string) (*feature.Feature, bool) {
	for _, f := range c.features {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// HasFeature reports whether a feature with id is applied.
func (c *Character) HasFeature(id string) bool {
	_, ok := c.Feature(id)
	return ok
}

// UseFeature spends one use of the feature with id.
//
// Postcondition: Returns false when the feature is absent, has no uses, or
// is exhausted.
func (c *Character) UseFeature(id string) bool {
	f, ok := c.Feature(id)
	if !ok {
		return false
	}
	return f.Spend()
}

// RechargeFeatures refills every feature whose uses recharge on rt.
//
// Postcondition: Returns the ids of the recharged features.
func (c *Character) RechargeFeatures(rt feature.RechargeType) []string {
	var ids []string
	for _, f := range c.features {
		if f.Recharge(rt) {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

func (c *Character) activeFeatures() []*feature.Feature {
	out := make([]*feature.Feature, 0, len(c.features))
	for _, f := range c.features {
		if f.Active {
			out = append(out, f)
		}
	}
	return out
}

// Actions returns the full action pool.
func (c *Character) Actions() []action.Action {
	out := make([]action.Action, len(c.actions))
	copy(out, c.actions)
	return out
}

// Reactions returns the full reaction pool.
func (c *Character) Reactions() []action.Reaction {
	out := make([]action.Reaction, len(c.reactions))
	copy(out, c.reactions)
	return out
}

// AvailableActions filters the action pool by what this turn still allows
// and by the timings blocked by active conditions.
func (c *Character) AvailableActions() []action.Action {
	return c.Turn.Filter(c.actions, c.restricted)
}

// AvailableReactions returns the reaction pool, or nothing once the
// reaction is spent or blocked by a condition.
func (c *Character) AvailableReactions() []action.Reaction {
	if !c.Turn.Available(action.TimingReaction) || c.restricted(action.TimingReaction) {
		return nil
	}
	return c.Reactions()
}

func (c *Character) restricted(t action.Timing) bool {
	return c.Conditions.Restricted(c.conditionDefs, t)
}
