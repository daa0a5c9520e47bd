// Package ability models the six ability scores, their modifiers, and the
// skills and saving throws keyed off them.
package ability

import (
	"fmt"
	"strings"
)

// Key names one of the six canonical abilities.
type Key string

const (
	Strength     Key = "strength"
	Dexterity    Key = "dexterity"
	Constitution Key = "constitution"
	Intelligence Key = "intelligence"
	Wisdom       Key = "wisdom"
	Charisma     Key = "charisma"
)

// Keys lists the abilities in sheet order.
var Keys = []Key{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

var shortCodes = map[string]Key{
	"str": Strength,
	"dex": Dexterity,
	"con": Constitution,
	"int": Intelligence,
	"wis": Wisdom,
	"cha": Charisma,
}

// Parse accepts a full ability name ("dexterity") or a short code ("DEX"),
// case-insensitively.
func Parse(s string) (Key, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if k, ok := shortCodes[lower]; ok {
		return k, nil
	}
	k := Key(lower)
	if k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("ability: unknown ability %q", s)
}

// Valid reports whether k is one of the six canonical keys.
func (k Key) Valid() bool {
	for _, c := range Keys {
		if k == c {
			return true
		}
	}
	return false
}

// Short returns the three-letter upper-case code, e.g. "DEX".
func (k Key) Short() string {
	if len(k) < 3 {
		return strings.ToUpper(string(k))
	}
	return strings.ToUpper(string(k[:3]))
}

// UnmarshalText lets content files spell abilities either way.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Modifier converts an ability score to its modifier, flooring toward
// negative infinity: 9 yields -1, 3 yields -4.
func Modifier(score int) int {
	return floorDiv(score-10, 2)
}

// ProficiencyBonus returns the proficiency bonus for a character level:
// 2 at levels 1-4, rising by one every four levels.
func ProficiencyBonus(level int) int {
	return floorDiv(level-1, 4) + 2
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Reader exposes read-only ability modifiers to components that derive
// values from them.
type Reader interface {
	Modifier(k Key) int
}
