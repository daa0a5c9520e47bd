// Package damage defines damage types and how resistance, immunity, and
// vulnerability adjust an incoming amount.
package damage

import "fmt"

// Type is a damage type such as fire or slashing.
type Type string

const (
	Bludgeoning Type = "bludgeoning"
	Piercing    Type = "piercing"
	Slashing    Type = "slashing"
	Fire        Type = "fire"
	Cold        Type = "cold"
	Lightning   Type = "lightning"
	Thunder     Type = "thunder"
	Acid        Type = "acid"
	Poison      Type = "poison"
	Psychic     Type = "psychic"
	Radiant     Type = "radiant"
	Necrotic    Type = "necrotic"
	Force       Type = "force"
)

// Types lists every damage type.
var Types = []Type{
	Bludgeoning, Piercing, Slashing, Fire, Cold, Lightning, Thunder,
	Acid, Poison, Psychic, Radiant, Necrotic, Force,
}

// Valid reports whether t is a known damage type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Kind classifies how a creature responds to a damage type.
type Kind string

const (
	KindResistance    Kind = "resistance"
	KindImmunity      Kind = "immunity"
	KindVulnerability Kind = "vulnerability"
)

// Resistance pairs a damage type with a response kind.
type Resistance struct {
	DamageType Type `yaml:"damage_type" json:"damage_type"`
	Kind       Kind `yaml:"resistance_type" json:"resistance_type"`
}

// Validate checks both fields.
func (r Resistance) Validate() error {
	if !r.DamageType.Valid() {
		return fmt.Errorf("damage: unknown damage type %q", r.DamageType)
	}
	switch r.Kind {
	case KindResistance, KindImmunity, KindVulnerability:
		return nil
	}
	return fmt.Errorf("damage: unknown resistance type %q", r.Kind)
}

// Response is the combined set of flags matching one damage type.
type Response struct {
	Resistant  bool
	Immune     bool
	Vulnerable bool
}

// Merge folds one Resistance entry into the response.
func (r Response) Merge(kind Kind) Response {
	switch kind {
	case KindResistance:
		r.Resistant = true
	case KindImmunity:
		r.Immune = true
	case KindVulnerability:
		r.Vulnerable = true
	}
	return r
}

// Adjust applies a response to an incoming amount. Immunity wins outright;
// otherwise resistance halves (flooring) and vulnerability then doubles.
//
// Postcondition: Returns 0 when r.Immune.
func Adjust(amount int, r Response) int {
	if r.Immune {
		return 0
	}
	if r.Resistant {
		amount = floorHalf(amount)
	}
	if r.Vulnerable {
		amount *= 2
	}
	return amount
}

func floorHalf(n int) int {
	if n < 0 && n%2 != 0 {
		return n/2 - 1
	}
	return n / 2
}
