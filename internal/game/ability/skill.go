package ability

import (
	"fmt"
	"sort"
	"strings"
)

// Skill names one of the standard skills.
type Skill string

const (
	Acrobatics     Skill = "acrobatics"
	AnimalHandling Skill = "animal_handling"
	Arcana         Skill = "arcana"
	Athletics      Skill = "athletics"
	Deception      Skill = "deception"
	History        Skill = "history"
	Insight        Skill = "insight"
	Intimidation   Skill = "intimidation"
	Investigation  Skill = "investigation"
	Medicine       Skill = "medicine"
	Nature         Skill = "nature"
	Perception     Skill = "perception"
	Performance    Skill = "performance"
	Persuasion     Skill = "persuasion"
	SleightOfHand  Skill = "sleight_of_hand"
	Stealth        Skill = "stealth"
	Survival       Skill = "survival"
)

var skillAbility = map[Skill]Key{
	Acrobatics:     Dexterity,
	AnimalHandling: Wisdom,
	Arcana:         Intelligence,
	Athletics:      Strength,
	Deception:      Charisma,
	History:        Intelligence,
	Insight:        Wisdom,
	Intimidation:   Charisma,
	Investigation:  Intelligence,
	Medicine:       Wisdom,
	Nature:         Intelligence,
	Perception:     Wisdom,
	Performance:    Charisma,
	Persuasion:     Charisma,
	SleightOfHand:  Dexterity,
	Stealth:        Dexterity,
	Survival:       Wisdom,
}

// Skills returns every skill in alphabetical order.
func Skills() []Skill {
	out := make([]Skill, 0, len(skillAbility))
	for s := range skillAbility {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Ability returns the ability a skill keys off.
func (s Skill) Ability() (Key, bool) {
	k, ok := skillAbility[s]
	return k, ok
}

// ParseSkill accepts "sleight_of_hand", "Sleight of Hand" or "sleight-of-hand".
func ParseSkill(raw string) (Skill, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	s := Skill(norm)
	if _, ok := skillAbility[s]; !ok {
		return "", fmt.Errorf("ability: unknown skill %q", raw)
	}
	return s, nil
}

// UnmarshalText accepts any spelling ParseSkill does.
func (s *Skill) UnmarshalText(text []byte) error {
	parsed, err := ParseSkill(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
