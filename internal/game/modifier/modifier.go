// Package modifier provides signed numeric adjustments and the ordered
// collections that sum them.
package modifier

import (
	"fmt"
	"time"
)

// Source identifies where a modifier came from.
type Source string

const (
	SourceAbility     Source = "ability"
	SourceProficiency Source = "proficiency"
	SourceFeat        Source = "feat"
	SourceSpell       Source = "spell"
	SourceBuff        Source = "buff"
	SourceCondition   Source = "condition"
	SourceRace        Source = "race"
	SourceClass       Source = "class"
	SourceItem        Source = "item"
	SourceOther       Source = "other"
)

var validSources = map[Source]struct{}{
	SourceAbility: {}, SourceProficiency: {}, SourceFeat: {}, SourceSpell: {}, SourceBuff: {},
	SourceCondition: {}, SourceRace: {}, SourceClass: {}, SourceItem: {}, SourceOther: {},
}

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	_, ok := validSources[s]
	return ok
}

// Modifier is a single signed adjustment that can be toggled on and off.
type Modifier struct {
	ID          string     `yaml:"id" json:"id"`
	Value       int        `yaml:"value" json:"value"`
	Label       string     `yaml:"label" json:"label"`
	Source      Source     `yaml:"source" json:"source"`
	Active      bool       `yaml:"active" json:"active"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	ExpiresAt   *time.Time `yaml:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// Validate checks the modifier's identifying fields.
//
// Postcondition: Returns nil iff ID and Label are non-empty and Source is known.
func (m *Modifier) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("modifier: id must not be empty")
	}
	if m.Label == "" {
		return fmt.Errorf("modifier %q: label must not be empty", m.ID)
	}
	if !m.Source.Valid() {
		return fmt.Errorf("modifier %q: unknown source %q", m.ID, m.Source)
	}
	return nil
}

// Entry is one labelled contribution to a derived value.
type Entry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Sum returns the total of all entry values.
func Sum(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Value
	}
	return total
}

// Total sums the active modifiers in mods.
func Total(mods []*Modifier) int {
	total := 0
	for _, m := range mods {
		if m != nil && m.Active {
			total += m.Value
		}
	}
	return total
}
