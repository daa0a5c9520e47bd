package ruleset

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
)

// BackgroundFeature is the narrative perk a background grants.
type BackgroundFeature struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Background describes a character's history and the proficiencies it brings.
type Background struct {
	ID                    string             `yaml:"id"`
	Name                  string             `yaml:"name"`
	Description           string             `yaml:"description"`
	SkillProficiencies    []ability.Skill    `yaml:"skill_proficiencies"`
	ToolProficiencies     []string           `yaml:"tool_proficiencies"`
	LanguageProficiencies []string           `yaml:"language_proficiencies"`
	Equipment             []string           `yaml:"equipment"`
	GoldAmount            int                `yaml:"gold_amount"`
	Personality           string             `yaml:"personality"`
	Ideals                string             `yaml:"ideals"`
	Bonds                 string             `yaml:"bonds"`
	Flaws                 string             `yaml:"flaws"`
	Feature               *BackgroundFeature `yaml:"feature"`
}

// Validate reports every problem with the background.
func (b *Background) Validate() error {
	var errs []error
	if b.ID == "" || b.Name == "" {
		errs = append(errs, fmt.Errorf("background %q: id and name must not be empty", b.ID))
	}
	for _, s := range b.SkillProficiencies {
		if _, ok := s.Ability(); !ok {
			errs = append(errs, fmt.Errorf("background %q: unknown skill %q", b.ID, s))
		}
	}
	if b.GoldAmount < 0 {
		errs = append(errs, fmt.Errorf("background %q: gold_amount must not be negative", b.ID))
	}
	return errors.Join(errs...)
}

// LoadBackgrounds reads all .yaml files in dir and parses each as a Background.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed backgrounds (may be empty slice) or a non-nil error.
func LoadBackgrounds(dir string) ([]*Background, error) {
	return loadAll[Background](dir, "background")
}
