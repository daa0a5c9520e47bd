// Package content is the read-only catalog of game records a character is
// built from: races, classes, backgrounds, features, weapons, armor, and
// condition definitions.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/armor"
	"github.com/cory-johannsen/charsheet/internal/game/condition"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/weapon"
)

// ErrUnknownID is returned when a lookup names no catalog record.
var ErrUnknownID = errors.New("content: unknown id")

// Lookup resolves catalog records by id. Returned records are shared and
// must be cloned before per-character mutation.
type Lookup interface {
	Race(id string) (*ruleset.Race, error)
	Class(id string) (*ruleset.Class, error)
	Subclass(id string) (*ruleset.Subclass, error)
	Background(id string) (*ruleset.Background, error)
	Feature(id string) (*feature.Feature, error)
	Weapon(id string) (*weapon.Weapon, error)
	Armor(id string) (*armor.Armor, error)
	Conditions() *condition.Registry
}

// Catalog is the in-memory Lookup built from a content directory.
type Catalog struct {
	races       map[string]*ruleset.Race
	classes     map[string]*ruleset.Class
	subclasses  map[string]*ruleset.Subclass
	backgrounds map[string]*ruleset.Background
	features    map[string]*feature.Feature
	weapons     map[string]*weapon.Weapon
	armor       map[string]*armor.Armor
	conditions  *condition.Registry
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		races:       make(map[string]*ruleset.Race),
		classes:     make(map[string]*ruleset.Class),
		subclasses:  make(map[string]*ruleset.Subclass),
		backgrounds: make(map[string]*ruleset.Background),
		features:    make(map[string]*feature.Feature),
		weapons:     make(map[string]*weapon.Weapon),
		armor:       make(map[string]*armor.Armor),
		conditions:  condition.NewRegistry(),
	}
}

// AddRace registers r, replacing any record with the same id.
func (c *Catalog) AddRace(r *ruleset.Race) { c.races[r.ID] = r }

// AddClass registers cl, replacing any record with the same id.
func (c *Catalog) AddClass(cl *ruleset.Class) { c.classes[cl.ID] = cl }

// AddSubclass registers s, replacing any record with the same id.
func (c *Catalog) AddSubclass(s *ruleset.Subclass) { c.subclasses[s.ID] = s }

// AddBackground registers b, replacing any record with the same id.
func (c *Catalog) AddBackground(b *ruleset.Background) { c.backgrounds[b.ID] = b }

// AddFeature registers f, replacing any record with the same id.
func (c *Catalog) AddFeature(f *feature.Feature) { c.features[f.ID] = f }

// AddWeapon registers w, replacing any record with the same id.
func (c *Catalog) AddWeapon(w *weapon.Weapon) { c.weapons[w.ID] = w }

// AddArmor registers a, replacing any record with the same id.
func (c *Catalog) AddArmor(a *armor.Armor) { c.armor[a.ID] = a }

// AddCondition registers a condition definition.
func (c *Catalog) AddCondition(d *condition.ConditionDef) { c.conditions.Register(d) }

func find[T any](m map[string]*T, kind, id string) (*T, error) {
	if v, ok := m[id]; ok {
		return v, nil
	}
	if v, ok := m[NameToID(id)]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s %q", ErrUnknownID, kind, id)
}

// Race implements Lookup.
func (c *Catalog) Race(id string) (*ruleset.Race, error) { return find(c.races, "race", id) }

// Class implements Lookup.
func (c *Catalog) Class(id string) (*ruleset.Class, error) { return find(c.classes, "class", id) }

// Subclass implements Lookup.
func (c *Catalog) Subclass(id string) (*ruleset.Subclass, error) {
	return find(c.subclasses, "subclass", id)
}

// Background implements Lookup.
func (c *Catalog) Background(id string) (*ruleset.Background, error) {
	return find(c.backgrounds, "background", id)
}

// Feature implements Lookup.
func (c *Catalog) Feature(id string) (*feature.Feature, error) {
	return find(c.features, "feature", id)
}

// Weapon implements Lookup.
func (c *Catalog) Weapon(id string) (*weapon.Weapon, error) { return find(c.weapons, "weapon", id) }

// Armor implements Lookup.
func (c *Catalog) Armor(id string) (*armor.Armor, error) { return find(c.armor, "armor", id) }

// Conditions implements Lookup.
func (c *Catalog) Conditions() *condition.Registry { return c.conditions }

// Counts reports the number of records per section.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"races":       len(c.races),
		"classes":     len(c.classes),
		"subclasses":  len(c.subclasses),
		"backgrounds": len(c.backgrounds),
		"features":    len(c.features),
		"weapons":     len(c.weapons),
		"armor":       len(c.armor),
		"conditions":  len(c.conditions.All()),
	}
}

// Validate checks cross-references: every feature named by a race, subrace,
// class, or subclass exists, and every subclass names a known class.
func (c *Catalog) Validate() error {
	var errs []error
	checkFeatures := func(owner string, ids []string) {
		for _, id := range ids {
			if _, ok := c.features[id]; !ok {
				errs = append(errs, fmt.Errorf("%s: %w: feature %q", owner, ErrUnknownID, id))
			}
		}
	}
	for _, id := range sortedKeys(c.races) {
		r := c.races[id]
		checkFeatures("race "+id, r.Features)
		for _, s := range r.Subraces {
			checkFeatures("subrace "+s.ID, s.Features)
		}
	}
	for _, id := range sortedKeys(c.classes) {
		checkFeatures("class "+id, c.classes[id].FeaturesThrough(20))
	}
	for _, id := range sortedKeys(c.subclasses) {
		s := c.subclasses[id]
		if _, ok := c.classes[s.ParentClass]; !ok {
			errs = append(errs, fmt.Errorf("subclass %s: %w: class %q", id, ErrUnknownID, s.ParentClass))
		}
		checkFeatures("subclass "+id, s.FeaturesThrough(20))
	}
	return errors.Join(errs...)
}

// LoadDirectory loads every catalog section found under root. A missing
// section directory is skipped; a malformed record fails the load.
//
// Precondition: root must be a readable directory.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadDirectory(root string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("content: LoadDirectory: %w", err)
	}
	c := NewCatalog()

	type section struct {
		name string
		load func(dir string) (int, error)
	}
	sections := []section{
		{"races", func(dir string) (int, error) {
			recs, err := ruleset.LoadRaces(dir)
			for _, r := range recs {
				c.AddRace(r)
			}
			return len(recs), err
		}},
		{"classes", func(dir string) (int, error) {
			recs, err := ruleset.LoadClasses(dir)
			for _, r := range recs {
				c.AddClass(r)
			}
			return len(recs), err
		}},
		{"subclasses", func(dir string) (int, error) {
			recs, err := ruleset.LoadSubclasses(dir)
			for _, r := range recs {
				c.AddSubclass(r)
			}
			return len(recs), err
		}},
		{"backgrounds", func(dir string) (int, error) {
			recs, err := ruleset.LoadBackgrounds(dir)
			for _, r := range recs {
				c.AddBackground(r)
			}
			return len(recs), err
		}},
		{"features", func(dir string) (int, error) {
			recs, err := feature.Load(dir)
			for _, r := range recs {
				c.AddFeature(r)
			}
			return len(recs), err
		}},
		{"weapons", func(dir string) (int, error) {
			recs, err := weapon.Load(dir)
			for _, r := range recs {
				c.AddWeapon(r)
			}
			return len(recs), err
		}},
		{"armor", func(dir string) (int, error) {
			recs, err := armor.Load(dir)
			for _, r := range recs {
				c.AddArmor(r)
			}
			return len(recs), err
		}},
		{"conditions", func(dir string) (int, error) {
			reg, err := condition.LoadDirectory(dir)
			if err != nil {
				return 0, err
			}
			c.conditions = reg
			return len(reg.All()), nil
		}},
	}

	for _, s := range sections {
		dir := filepath.Join(root, s.name)
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			logger.Debug("content section missing", zap.String("section", s.name), zap.String("dir", dir))
			continue
		}
		n, err := s.load(dir)
		if err != nil {
			return nil, fmt.Errorf("content: LoadDirectory: %s: %w", s.name, err)
		}
		logger.Info("loaded "+s.name, zap.Int("count", n), zap.String("dir", dir))
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("content: LoadDirectory: %w", err)
	}
	return c, nil
}

func sortedKeys[T any](m map[string]*T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NameToID converts a display name to a stable snake_case identifier.
//
// Postcondition: result is lowercase, contains only [a-z0-9_], and is
// idempotent (NameToID(NameToID(s)) == NameToID(s)).
func NameToID(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
