package modifier

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Collection is an ordered bag of modifiers. Order only affects breakdown
// display; Total is order independent.
//
// The zero value is an empty, usable collection. It is not safe for
// concurrent use.
type Collection struct {
	mods []*Modifier
}

// NewCollection returns a collection holding mods in the given order.
func NewCollection(mods ...*Modifier) *Collection {
	c := &Collection{}
	for _, m := range mods {
		c.Add(m)
	}
	return c
}

// Add appends m. A nil modifier is ignored.
func (c *Collection) Add(m *Modifier) {
	if m == nil {
		return
	}
	c.mods = append(c.mods, m)
}

// Remove deletes every modifier whose ID equals id.
//
// Postcondition: Get(id) reports false.
func (c *Collection) Remove(id string) {
	if c == nil {
		return
	}
	kept := c.mods[:0]
	for _, m := range c.mods {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(c.mods); i++ {
		c.mods[i] = nil
	}
	c.mods = kept
}

// Get returns the first modifier with the given id.
func (c *Collection) Get(id string) (*Modifier, bool) {
	if c == nil {
		return nil, false
	}
	for _, m := range c.mods {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// Len returns the number of modifiers, active or not.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.mods)
}

// All returns every modifier in insertion order. The slice is a copy; the
// modifiers are shared with the collection.
func (c *Collection) All() []*Modifier {
	if c == nil {
		return nil
	}
	out := make([]*Modifier, len(c.mods))
	copy(out, c.mods)
	return out
}

// Active returns the active modifiers in insertion order.
func (c *Collection) Active() []*Modifier {
	if c == nil {
		return nil
	}
	var out []*Modifier
	for _, m := range c.mods {
		if m.Active {
			out = append(out, m)
		}
	}
	return out
}

// Total returns the sum of active modifier values. A nil collection totals 0.
//
// Postcondition: Total() == Sum(Breakdown()).
func (c *Collection) Total() int {
	if c == nil {
		return 0
	}
	return Total(c.mods)
}

// Breakdown lists the active modifiers as labelled entries.
func (c *Collection) Breakdown() []Entry {
	active := c.Active()
	out := make([]Entry, 0, len(active))
	for _, m := range active {
		out = append(out, Entry{Label: m.Label, Value: m.Value})
	}
	return out
}

// ExpireAt removes modifiers whose ExpiresAt is before now and returns their ids.
// Modifiers without an expiry are kept.
func (c *Collection) ExpireAt(now time.Time) []string {
	if c == nil {
		return nil
	}
	var expired []string
	kept := c.mods[:0]
	for _, m := range c.mods {
		if m.ExpiresAt != nil && m.ExpiresAt.Before(now) {
			expired = append(expired, m.ID)
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(c.mods); i++ {
		c.mods[i] = nil
	}
	c.mods = kept
	return expired
}

// Clone returns a deep copy so an inventory item can carry its own modifiers
// independent of the catalog record it was made from.
func (c *Collection) Clone() *Collection {
	out := &Collection{}
	if c == nil {
		return out
	}
	for _, m := range c.mods {
		cp := *m
		out.mods = append(out.mods, &cp)
	}
	return out
}

// MarshalYAML encodes the collection as a plain list.
func (c *Collection) MarshalYAML() (interface{}, error) {
	return c.All(), nil
}

// UnmarshalYAML decodes a plain list of modifiers.
func (c *Collection) UnmarshalYAML(value *yaml.Node) error {
	var mods []*Modifier
	if err := value.Decode(&mods); err != nil {
		return err
	}
	c.mods = nil
	for _, m := range mods {
		c.Add(m)
	}
	return nil
}
