package weapon

import (
	"fmt"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/modifier"
)

// DualWielderFeatureID is the feature that restores the ability modifier to
// off-hand damage.
const DualWielderFeatureID = "dual_wielder"

// Hand is an equip slot.
type Hand string

const (
	MainHand Hand = "main_hand"
	OffHand  Hand = "off_hand"
)

// Valid reports whether h is a known slot.
func (h Hand) Valid() bool {
	return h == MainHand || h == OffHand
}

// Wielder is the read-only view of a character that attack derivation needs.
type Wielder interface {
	ability.Reader
	ProficiencyBonus() int
	WeaponProficiencies() []string
	HasFeature(id string) bool
}

// Roll describes one roll for display: the dice, the flat modifier, and
// where the modifier came from.
type Roll struct {
	Dice      string           `json:"dice"`
	Modifier  int              `json:"modifier"`
	Label     string           `json:"label"`
	Breakdown []modifier.Entry `json:"breakdown"`
}

// Attack is a derived attack option for one weapon in one hand.
type Attack struct {
	ID          string `json:"id"`
	WeaponID    string `json:"weapon_id"`
	WeaponName  string `json:"weapon_name"`
	Hand        Hand   `json:"hand"`
	Proficient  bool   `json:"proficient"`
	AttackBonus int    `json:"attack_bonus"`
	Roll        Roll   `json:"roll"`
	Damage      Roll   `json:"damage"`
}

// IsProficient reports whether the weapon's type or prototype appears in profs.
func IsProficient(w *Weapon, profs []string) bool {
	for _, p := range profs {
		if p == string(w.Type) || (w.Prototype != "" && p == w.Prototype) {
			return true
		}
	}
	return false
}

// Derive computes the attack for w held in hand by who.
//
// attack bonus = ability modifier + proficiency (when proficient) + weapon modifiers.
// Off-hand damage drops the ability modifier unless who has the dual wielder feature.
func Derive(w *Weapon, hand Hand, who Wielder) Attack {
	abilityMod := who.Modifier(w.DamageModifier)
	proficient := IsProficient(w, who.WeaponProficiencies())
	profBonus := 0
	if proficient {
		profBonus = who.ProficiencyBonus()
	}
	weaponBonus := w.Modifiers.Total()
	attackBonus := abilityMod + profBonus + weaponBonus

	damageMod := abilityMod
	if hand == OffHand && !who.HasFeature(DualWielderFeatureID) {
		damageMod = 0
	}
	abilityLabel := fmt.Sprintf("%s modifier", w.DamageModifier)

	return Attack{
		ID:          "attack-" + w.ID,
		WeaponID:    w.ID,
		WeaponName:  w.Name,
		Hand:        hand,
		Proficient:  proficient,
		AttackBonus: attackBonus,
		Roll: Roll{
			Dice:     "1d20",
			Modifier: attackBonus,
			Label:    fmt.Sprintf("%s: 1d20 %s", w.Name, signed(attackBonus)),
			Breakdown: []modifier.Entry{
				{Label: abilityLabel, Value: abilityMod},
				{Label: "Proficiency bonus", Value: profBonus},
				{Label: "Weapon modifiers", Value: weaponBonus},
			},
		},
		Damage: Roll{
			Dice:      w.DamageDice,
			Modifier:  damageMod,
			Label:     fmt.Sprintf("%s %s", w.DamageDice, signed(damageMod)),
			Breakdown: []modifier.Entry{{Label: abilityLabel, Value: damageMod}},
		},
	}
}

func signed(n int) string {
	if n < 0 {
		return fmt.Sprintf("- %d", -n)
	}
	return fmt.Sprintf("+ %d", n)
}
