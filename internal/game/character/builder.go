package character

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/condition"
	"github.com/cory-johannsen/charsheet/internal/game/content"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/weapon"
)

// SheetCondition is a condition listed on a sheet.
type SheetCondition struct {
	Name     condition.Name `yaml:"name"`
	Duration int            `yaml:"duration"`
	Source   string         `yaml:"source"`
}

// SheetEquipped names the catalog ids to equip after the inventory is filled.
type SheetEquipped struct {
	Armor    string `yaml:"armor"`
	Shield   string `yaml:"shield"`
	MainHand string `yaml:"main_hand"`
	OffHand  string `yaml:"off_hand"`
}

// Sheet is the on-disk description of a character: catalog ids plus the
// player's own choices.
type Sheet struct {
	Name                string              `yaml:"name"`
	PlayerName          string              `yaml:"player_name"`
	Level               int                 `yaml:"level"`
	Experience          int                 `yaml:"experience"`
	Alignment           string              `yaml:"alignment"`
	Race                string              `yaml:"race"`
	Subrace             string              `yaml:"subrace"`
	RaceChoices         ability.Bonuses     `yaml:"race_choices"`
	SubraceChoices      ability.Bonuses     `yaml:"subrace_choices"`
	Class               string              `yaml:"class"`
	Subclass            string              `yaml:"subclass"`
	Background          string              `yaml:"background"`
	Abilities           map[ability.Key]int `yaml:"abilities"`
	Improvements        ability.Bonuses     `yaml:"ability_improvements"`
	HitDiceRolls        []int               `yaml:"hit_dice_rolls"`
	SkillProficiencies  []ability.Skill     `yaml:"skill_proficiencies"`
	SaveProficiencies   []ability.Key       `yaml:"save_proficiencies"`
	WeaponProficiencies []string            `yaml:"weapon_proficiencies"`
	Features            []string            `yaml:"features"`
	Weapons             []string            `yaml:"weapons"`
	Armor               []string            `yaml:"armor"`
	Equipped            SheetEquipped       `yaml:"equipped"`
	Conditions          []SheetCondition    `yaml:"conditions"`
}

// LoadSheet reads and strictly decodes a YAML sheet.
//
// Precondition: path must name a readable file.
// Postcondition: Returns the decoded sheet or a non-nil error; unknown keys are errors.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("character: LoadSheet: %w", err)
	}
	return ParseSheet(data)
}

// ParseSheet strictly decodes a YAML sheet.
func ParseSheet(data []byte) (*Sheet, error) {
	var s Sheet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("character: parsing sheet: %w", err)
	}
	return &s, nil
}

// Build resolves every catalog id on the sheet and assembles a Character.
// Catalog records are cloned where the character mutates them.
//
// Precondition: sheet and lookup must be non-nil; logger may be nil.
// Postcondition: Returns a Character, or a non-nil error wrapping
// content.ErrUnknownID when an id is not in the catalog.
func Build(sheet *Sheet, lookup content.Lookup, logger *zap.Logger) (*Character, error) {
	if sheet == nil {
		return nil, errors.New("character: Build: sheet must not be nil")
	}
	if sheet.Name == "" {
		return nil, errors.New("character: Build: name must not be empty")
	}
	level := sheet.Level
	if level == 0 {
		level = 1
	}
	if level < 1 || level > 20 {
		return nil, fmt.Errorf("character: Build: level %d out of range 1-20", sheet.Level)
	}
	if n := len(sheet.HitDiceRolls); n > 0 && n != level-1 {
		return nil, fmt.Errorf("character: Build: %d hit_dice_rolls given for level %d, want %d", n, level, level-1)
	}

	c := New(sheet.Name, logger)
	c.PlayerName = sheet.PlayerName
	c.Experience = sheet.Experience
	c.Alignment = sheet.Alignment
	c.SetConditionDefinitions(lookup.Conditions())

	granted, err := resolveRecords(c, sheet, lookup)
	if err != nil {
		return nil, err
	}

	for k, v := range sheet.Abilities {
		if !k.Valid() {
			return nil, fmt.Errorf("character: Build: unknown ability %q", k)
		}
		c.SetBaseScore(k, v)
	}
	for _, imp := range sheet.Improvements {
		c.Abilities.AddImprovement(imp)
	}

	for _, id := range append(granted, sheet.Features...) {
		f, err := lookup.Feature(id)
		if err != nil {
			return nil, fmt.Errorf("character: Build: %w", err)
		}
		c.ApplyFeature(f.Clone())
	}

	// Features may raise CON, so hit dice come after them and the sheet
	// starts at full health.
	if len(sheet.HitDiceRolls) == 0 {
		c.SetLevel(level)
	} else {
		c.SetLevel(1)
		for _, r := range sheet.HitDiceRolls {
			c.LevelUp(&r)
		}
	}
	c.HP.ResetHealth()

	for _, s := range sheet.SkillProficiencies {
		if _, ok := s.Ability(); !ok {
			return nil, fmt.Errorf("character: Build: unknown skill %q", s)
		}
		c.AddSkillProficiency(s)
	}
	for _, k := range sheet.SaveProficiencies {
		c.AddSaveProficiency(k)
	}
	for _, p := range sheet.WeaponProficiencies {
		c.AddWeaponProficiency(p)
	}

	if err := equipSheet(c, sheet, lookup); err != nil {
		return nil, err
	}

	for _, sc := range sheet.Conditions {
		if !sc.Name.Valid() {
			return nil, fmt.Errorf("character: Build: unknown condition %q", sc.Name)
		}
		c.AddCondition(sc.Name, sc.Duration, sc.Source)
	}
	return c, nil
}

// resolveRecords sets race, subrace, class, subclass, and background on c
// and returns the feature ids those records grant at the sheet's level.
func resolveRecords(c *Character, sheet *Sheet, lookup content.Lookup) ([]string, error) {
	level := max(sheet.Level, 1)
	var granted []string

	if sheet.Race != "" {
		r, err := lookup.Race(sheet.Race)
		if err != nil {
			return nil, fmt.Errorf("character: Build: %w", err)
		}
		if err := ruleset.CheckChoices(sheet.RaceChoices, r.ChoiceModifiers); err != nil {
			return nil, fmt.Errorf("character: Build: race %s: %w", r.ID, err)
		}
		c.Race = r
		c.RaceChoices = sheet.RaceChoices
		granted = append(granted, r.Features...)
	}
	if sheet.Subrace != "" {
		if c.Race == nil {
			return nil, fmt.Errorf("character: Build: subrace %q given without a race", sheet.Subrace)
		}
		sr, ok := c.Race.Subrace(content.NameToID(sheet.Subrace))
		if !ok {
			return nil, fmt.Errorf("character: Build: %w: subrace %q of race %s", content.ErrUnknownID, sheet.Subrace, c.Race.ID)
		}
		if err := ruleset.CheckChoices(sheet.SubraceChoices, sr.ChoiceModifiers); err != nil {
			return nil, fmt.Errorf("character: Build: subrace %s: %w", sr.ID, err)
		}
		c.Subrace = sr
		c.SubraceChoices = sheet.SubraceChoices
		granted = append(granted, sr.Features...)
	}
	if sheet.Class != "" {
		cl, err := lookup.Class(sheet.Class)
		if err != nil {
			return nil, fmt.Errorf("character: Build: %w", err)
		}
		c.Class = cl
		granted = append(granted, cl.FeaturesThrough(level)...)
	}
	if sheet.Subclass != "" {
		if c.Class == nil {
			return nil, fmt.Errorf("character: Build: subclass %q given without a class", sheet.Subclass)
		}
		sc, err := lookup.Subclass(sheet.Subclass)
		if err != nil {
			return nil, fmt.Errorf("character: Build: %w", err)
		}
		if sc.ParentClass != c.Class.ID {
			return nil, fmt.Errorf("character: Build: subclass %s belongs to %s, not %s", sc.ID, sc.ParentClass, c.Class.ID)
		}
		c.Subclass = sc
		granted = append(granted, sc.FeaturesThrough(level)...)
	}
	if sheet.Background != "" {
		bg, err := lookup.Background(sheet.Background)
		if err != nil {
			return nil, fmt.Errorf("character: Build: %w", err)
		}
		c.Background = bg
	}
	return granted, nil
}

// equipSheet fills the inventory from the catalog and equips the named slots.
func equipSheet(c *Character, sheet *Sheet, lookup content.Lookup) error {
	for _, id := range sheet.Weapons {
		w, err := lookup.Weapon(id)
		if err != nil {
			return fmt.Errorf("character: Build: %w", err)
		}
		c.AddWeapon(w.Clone())
	}
	for _, id := range sheet.Armor {
		a, err := lookup.Armor(id)
		if err != nil {
			return fmt.Errorf("character: Build: %w", err)
		}
		c.AddArmor(a.Clone())
	}

	eq := sheet.Equipped
	slots := []struct {
		slot  string
		id    string
		equip func(id string) bool
	}{
		{"armor", eq.Armor, c.EquipArmor},
		{"shield", eq.Shield, c.EquipShield},
		{"main_hand", eq.MainHand, func(id string) bool { return c.EquipWeapon(id, weapon.MainHand) }},
		{"off_hand", eq.OffHand, func(id string) bool { return c.EquipWeapon(id, weapon.OffHand) }},
	}
	for _, s := range slots {
		if s.id == "" {
			continue
		}
		if !s.equip(content.NameToID(s.id)) {
			return fmt.Errorf("character: Build: cannot equip %q in %s: not in inventory", s.id, s.slot)
		}
	}
	return nil
}
