// Package character is the aggregate that ties ability scores, armor class,
// weapon attacks, hit points, conditions, the action economy, and applied
// features together into one sheet whose derived values are recomputed on
// every read.
package character

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/action"
	"github.com/cory-johannsen/charsheet/internal/game/armor"
	"github.com/cory-johannsen/charsheet/internal/game/condition"
	"github.com/cory-johannsen/charsheet/internal/game/damage"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/hitpoints"
	"github.com/cory-johannsen/charsheet/internal/game/modifier"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/weapon"
)

// Character is a player character. Race, Subrace, Class, Subclass, and
// Background are shared read-only catalog records and may be nil.
//
// A Character is not safe for concurrent use.
type Character struct {
	ID         uuid.UUID
	Name       string
	PlayerName string
	Experience int
	Alignment  string

	Race           *ruleset.Race
	Subrace        *ruleset.Subrace
	RaceChoices    ability.Bonuses
	SubraceChoices ability.Bonuses
	Class          *ruleset.Class
	Subclass       *ruleset.Subclass
	Background     *ruleset.Background

	Abilities  *ability.Set
	AC         *armor.Engine
	Loadout    *weapon.Loadout
	HP         *hitpoints.Engine
	Conditions *condition.Tracker
	Turn       *action.Economy

	CreatedAt time.Time

	level         int
	features      []*feature.Feature
	actions       []action.Action
	reactions     []action.Reaction
	weapons       []*weapon.Weapon
	armor         []*armor.Armor
	skillProfs    map[ability.Skill]bool
	saveProfs     map[ability.Key]bool
	weaponProfs   []string
	conditionDefs *condition.Registry
	logger        *zap.Logger
}

// New creates a level 1 character with every base score at 10 and no race,
// class, gear, or features.
//
// Precondition: logger may be nil.
// Postcondition: ID is a fresh random UUID and HP is at maximum.
func New(name string, logger *zap.Logger) *Character {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Character{
		ID:         uuid.New(),
		Name:       name,
		CreatedAt:  time.Now(),
		level:      1,
		skillProfs: make(map[ability.Skill]bool),
		saveProfs:  make(map[ability.Key]bool),
		logger:     logger.With(zap.String("character", name)),
	}
	inv := inventory{c}
	c.Abilities = ability.NewSet(c)
	c.AC = armor.NewEngine(c, inv, c, c.logger)
	c.Loadout = weapon.NewLoadout(inv, c, c.AC, c.logger)
	c.HP = hitpoints.New(c, c.level)
	c.Conditions = condition.NewTracker()
	c.Turn = action.NewEconomy(c)
	return c
}

// SetConditionDefinitions installs the registry consulted when conditions
// restrict action timings. A nil registry restricts nothing.
func (c *Character) SetConditionDefinitions(reg *condition.Registry) {
	c.conditionDefs = reg
}

// Level returns the character level.
func (c *Character) Level() int {
	return c.level
}

// SetLevel replaces the level and rebuilds the hit dice at their fixed
// values, restoring full health.
func (c *Character) SetLevel(level int) {
	c.level = level
	c.HP.InitializeHitDice(level)
}

// LevelUp raises the level by one and adds a hit die. A nil roll takes the
// die average.
//
// Postcondition: Returns the hit-die value added.
func (c *Character) LevelUp(roll *int) int {
	c.level++
	v := c.HP.AddLevelHitDie(roll)
	c.logger.Info("level up", zap.Int("level", c.level), zap.Int("hit_die", v))
	return v
}

// ProficiencyBonus is floor((level-1)/4)+2.
func (c *Character) ProficiencyBonus() int {
	return ability.ProficiencyBonus(c.level)
}

// SubclassShouldBeChosenAtThisLevel reports whether the class grants its
// subclass at exactly the current level.
func (c *Character) SubclassShouldBeChosenAtThisLevel() bool {
	return c.Class != nil && c.Class.SubclassLevel == c.level
}

// RaceHasSubraces reports whether the selected race offers subraces.
func (c *Character) RaceHasSubraces() bool {
	return c.Race != nil && c.Race.HasSubraces()
}

// AbilityBonusSources implements ability.Origins.
func (c *Character) AbilityBonusSources() []ability.BonusSource {
	var out []ability.BonusSource
	if c.Race != nil {
		out = append(out, c.Race)
	}
	if c.Subrace != nil {
		out = append(out, c.Subrace)
	}
	return append(out, c.RaceChoices, c.SubraceChoices)
}

// SetBaseScore replaces the base score for k.
func (c *Character) SetBaseScore(k ability.Key, value int) {
	c.Abilities.SetBase(k, value)
}

// Modifier returns the live ability modifier for k.
func (c *Character) Modifier(k ability.Key) int {
	return c.Abilities.Modifier(k)
}

// Speed returns the race walking speed, or action.DefaultSpeed without a race.
func (c *Character) Speed() int {
	if c.Race == nil {
		return action.DefaultSpeed
	}
	return c.Race.WalkingSpeed()
}

// HitDieSize returns the class hit die, or 0 when no class is set.
func (c *Character) HitDieSize() int {
	if c.Class == nil {
		return 0
	}
	return c.Class.HitDieSize
}

// DamageResponse merges the responses of every applied feature to t. The
// Active flag does not gate passive resistances.
func (c *Character) DamageResponse(t damage.Type) damage.Response {
	var r damage.Response
	for _, f := range c.features {
		fr := f.DamageResponse(t)
		r.Resistant = r.Resistant || fr.Resistant
		r.Immune = r.Immune || fr.Immune
		r.Vulnerable = r.Vulnerable || fr.Vulnerable
	}
	return r
}

// ArmorClassEntries returns the AC contributions of every active feature.
func (c *Character) ArmorClassEntries() []modifier.Entry {
	var out []modifier.Entry
	for _, f := range c.activeFeatures() {
		out = append(out, f.ArmorClassEntries()...)
	}
	return out
}

// Initiative is the DEX modifier plus active feature initiative modifiers.
func (c *Character) Initiative() int {
	return modifier.Sum(c.InitiativeBreakdown())
}

// InitiativeBreakdown lists the DEX modifier followed by feature entries.
func (c *Character) InitiativeBreakdown() []modifier.Entry {
	out := []modifier.Entry{{Label: "DEX Modifier", Value: c.Modifier(ability.Dexterity)}}
	for _, f := range c.activeFeatures() {
		out = append(out, f.InitiativeEntries()...)
	}
	return out
}

// AddSaveProficiency grants proficiency in saves for k beyond the class list.
func (c *Character) AddSaveProficiency(k ability.Key) {
	c.saveProfs[k] = true
}

// SaveProficient reports whether saves for k add the proficiency bonus.
func (c *Character) SaveProficient(k ability.Key) bool {
	return c.saveProfs[k] || (c.Class != nil && c.Class.ProficientSave(k))
}

// SavingThrow is the ability modifier, plus the proficiency bonus when
// proficient, plus active feature saving-throw modifiers.
func (c *Character) SavingThrow(k ability.Key) int {
	total := c.Modifier(k)
	if c.SaveProficient(k) {
		total += c.ProficiencyBonus()
	}
	for _, f := range c.activeFeatures() {
		total += f.SavingThrowBonus(k)
	}
	return total
}

// AddSkillProficiency grants proficiency in s.
func (c *Character) AddSkillProficiency(s ability.Skill) {
	c.skillProfs[s] = true
}

// SkillProficient reports whether s adds the proficiency bonus, either from
// an explicit grant or from the background.
func (c *Character) SkillProficient(s ability.Skill) bool {
	if c.skillProfs[s] {
		return true
	}
	if c.Background != nil {
		for _, bs := range c.Background.SkillProficiencies {
			if bs == s {
				return true
			}
		}
	}
	return false
}

// SkillModifier is the governing ability modifier, plus the proficiency
// bonus when proficient, plus active feature skill modifiers. An unknown
// skill yields 0.
func (c *Character) SkillModifier(s ability.Skill) int {
	k, ok := s.Ability()
	if !ok {
		return 0
	}
	total := c.Modifier(k)
	if c.SkillProficient(s) {
		total += c.ProficiencyBonus()
	}
	for _, f := range c.activeFeatures() {
		total += f.SkillBonus(s)
	}
	return total
}

// PassivePerception is 10 plus the Perception modifier.
func (c *Character) PassivePerception() int {
	return 10 + c.SkillModifier(ability.Perception)
}

// AddWeaponProficiency grants proficiency with a weapon type or prototype.
func (c *Character) AddWeaponProficiency(p string) {
	c.weaponProfs = append(c.weaponProfs, p)
}

// WeaponProficiencies returns the union of class, subclass, race, and
// explicit weapon proficiencies, without duplicates.
func (c *Character) WeaponProficiencies() []string {
	var all []string
	if c.Class != nil {
		all = append(all, c.Class.WeaponProficienciesAt(c.level)...)
	}
	if c.Subclass != nil {
		all = append(all, c.Subclass.WeaponProficienciesAt(c.level)...)
	}
	if c.Race != nil {
		all = append(all, c.Race.WeaponProficiencies...)
	}
	all = append(all, c.weaponProfs...)

	seen := make(map[string]bool, len(all))
	out := all[:0]
	for _, p := range all {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
