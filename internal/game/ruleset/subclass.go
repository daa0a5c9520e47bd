package ruleset

import (
	"errors"
	"fmt"
)

// Subclass specializes a class from its subclass level onward.
type Subclass struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	ParentClass string       `yaml:"parent_class"`
	Description string       `yaml:"description"`
	Levels      []ClassLevel `yaml:"levels"`
}

// FeaturesAt returns the feature ids gained exactly at level.
func (s *Subclass) FeaturesAt(level int) []string {
	return levels(s.Levels).featuresAt(level)
}

// FeaturesThrough returns the feature ids gained at levels 1..level.
func (s *Subclass) FeaturesThrough(level int) []string {
	return levels(s.Levels).featuresThrough(level)
}

// WeaponProficienciesAt returns the weapon proficiencies granted by levels up to level.
func (s *Subclass) WeaponProficienciesAt(level int) []string {
	return levels(s.Levels).weaponProficienciesThrough(level)
}

// Validate reports every problem with the subclass.
func (s *Subclass) Validate() error {
	var errs []error
	if s.ID == "" || s.Name == "" {
		errs = append(errs, fmt.Errorf("subclass %q: id and name must not be empty", s.ID))
	}
	if s.ParentClass == "" {
		errs = append(errs, fmt.Errorf("subclass %q: parent_class must not be empty", s.ID))
	}
	errs = append(errs, levels(s.Levels).validate("subclass "+s.ID))
	return errors.Join(errs...)
}

// LoadSubclasses reads all .yaml files in dir and parses each as a Subclass.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed subclasses (may be empty slice) or a non-nil error.
func LoadSubclasses(dir string) ([]*Subclass, error) {
	return loadAll[Subclass](dir, "subclass")
}
