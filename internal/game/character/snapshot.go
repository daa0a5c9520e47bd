package character

import (
	"time"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/action"
	"github.com/cory-johannsen/charsheet/internal/game/condition"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/hitpoints"
	"github.com/cory-johannsen/charsheet/internal/game/modifier"
	"github.com/cory-johannsen/charsheet/internal/game/weapon"
)

// AbilityScore is one row of the ability table.
type AbilityScore struct {
	Ability   ability.Key `json:"ability"`
	Base      int         `json:"base"`
	Effective int         `json:"effective"`
	Modifier  int         `json:"modifier"`
	Save      int         `json:"save"`
	SaveProf  bool        `json:"save_proficient"`
}

// SkillScore is one row of the skill table.
type SkillScore struct {
	Skill      ability.Skill `json:"skill"`
	Ability    ability.Key   `json:"ability"`
	Modifier   int           `json:"modifier"`
	Proficient bool          `json:"proficient"`
}

// FeatureSummary is the serializable view of an applied feature.
type FeatureSummary struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Type   feature.Type  `json:"type"`
	Active bool          `json:"active"`
	Uses   *feature.Uses `json:"uses,omitempty"`
}

// Equipped names the item ids in each slot; empty means nothing equipped.
type Equipped struct {
	Armor    string `json:"armor,omitempty"`
	Shield   string `json:"shield,omitempty"`
	MainHand string `json:"main_hand,omitempty"`
	OffHand  string `json:"off_hand,omitempty"`
}

// Snapshot is a point-in-time, serializable copy of every field and derived
// value on the sheet.
type Snapshot struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PlayerName string    `json:"player_name,omitempty"`
	Level      int       `json:"level"`
	Experience int       `json:"experience"`
	Alignment  string    `json:"alignment,omitempty"`
	Race       string    `json:"race,omitempty"`
	Subrace    string    `json:"subrace,omitempty"`
	Class      string    `json:"class,omitempty"`
	Subclass   string    `json:"subclass,omitempty"`
	Background string    `json:"background,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	TakenAt    time.Time `json:"taken_at"`

	ProficiencyBonus    int                   `json:"proficiency_bonus"`
	Abilities           []AbilityScore        `json:"abilities"`
	Skills              []SkillScore          `json:"skills"`
	PassivePerception   int                   `json:"passive_perception"`
	ArmorClass          int                   `json:"armor_class"`
	ArmorClassBreakdown []modifier.Entry      `json:"armor_class_breakdown"`
	Initiative          int                   `json:"initiative"`
	Speed               int                   `json:"speed"`
	HitPoints           hitpoints.State       `json:"hit_points"`
	Equipped            Equipped              `json:"equipped"`
	Weapons             []string              `json:"weapons"`
	Armor               []string              `json:"armor"`
	WeaponProficiencies []string              `json:"weapon_proficiencies"`
	Attacks             []weapon.Attack       `json:"attacks"`
	Actions             []action.Action       `json:"actions"`
	Reactions           []action.Reaction     `json:"reactions"`
	Conditions          []condition.Condition `json:"conditions"`
	Turn                action.State          `json:"turn"`
	Features            []FeatureSummary      `json:"features"`
}

// Snapshot captures the character. Later mutations do not affect the result.
func (c *Character) Snapshot() Snapshot {
	s := Snapshot{
		ID:                  c.ID.String(),
		Name:                c.Name,
		PlayerName:          c.PlayerName,
		Level:               c.level,
		Experience:          c.Experience,
		Alignment:           c.Alignment,
		CreatedAt:           c.CreatedAt,
		TakenAt:             time.Now(),
		ProficiencyBonus:    c.ProficiencyBonus(),
		PassivePerception:   c.PassivePerception(),
		ArmorClass:          c.AC.Value(),
		ArmorClassBreakdown: c.AC.Breakdown(),
		Initiative:          c.Initiative(),
		Speed:               c.Speed(),
		HitPoints:           c.HP.State(),
		WeaponProficiencies: c.WeaponProficiencies(),
		Attacks:             c.AvailableAttacks(),
		Actions:             c.AvailableActions(),
		Reactions:           c.AvailableReactions(),
		Conditions:          c.Conditions.Active(),
		Turn:                c.Turn.State(),
	}
	if c.Race != nil {
		s.Race = c.Race.ID
	}
	if c.Subrace != nil {
		s.Subrace = c.Subrace.ID
	}
	if c.Class != nil {
		s.Class = c.Class.ID
	}
	if c.Subclass != nil {
		s.Subclass = c.Subclass.ID
	}
	if c.Background != nil {
		s.Background = c.Background.ID
	}

	for _, k := range ability.Keys {
		s.Abilities = append(s.Abilities, AbilityScore{
			Ability:   k,
			Base:      c.Abilities.Base(k),
			Effective: c.Abilities.Effective(k),
			Modifier:  c.Modifier(k),
			Save:      c.SavingThrow(k),
			SaveProf:  c.SaveProficient(k),
		})
	}
	for _, sk := range ability.Skills() {
		k, _ := sk.Ability()
		s.Skills = append(s.Skills, SkillScore{
			Skill:      sk,
			Ability:    k,
			Modifier:   c.SkillModifier(sk),
			Proficient: c.SkillProficient(sk),
		})
	}

	if a := c.AC.Armor(); a != nil {
		s.Equipped.Armor = a.ID
	}
	if sh := c.AC.Shield(); sh != nil {
		s.Equipped.Shield = sh.ID
	}
	if w := c.Loadout.MainHand(); w != nil {
		s.Equipped.MainHand = w.ID
	}
	if w := c.Loadout.OffHand(); w != nil {
		s.Equipped.OffHand = w.ID
	}
	for _, w := range c.weapons {
		s.Weapons = append(s.Weapons, w.ID)
	}
	for _, a := range c.armor {
		s.Armor = append(s.Armor, a.ID)
	}
	for _, f := range c.features {
		fs := FeatureSummary{ID: f.ID, Name: f.Name, Type: f.Type, Active: f.Active}
		if f.Uses != nil {
			u := *f.Uses
			fs.Uses = &u
		}
		s.Features = append(s.Features, fs)
	}
	return s
}
