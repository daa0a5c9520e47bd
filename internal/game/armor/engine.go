package armor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/modifier"
)

// UnarmoredBase is the base AC when no body armor is worn.
const UnarmoredBase = 10

// Inventory resolves owned armor and shields by id.
type Inventory interface {
	Armor(id string) (*Armor, bool)
	Shield(id string) (*Armor, bool)
}

// ExtraSource supplies additional AC entries, such as those granted by
// features. Entries are added after the shield and before custom modifiers.
type ExtraSource interface {
	ArmorClassEntries() []modifier.Entry
}

// Engine derives armor class from the equipped armor and shield, the DEX
// modifier, and a custom modifier collection. Equipped items are held by id
// and resolved through the inventory on every read, so an item that leaves
// the inventory stops contributing.
type Engine struct {
	abilities ability.Reader
	inventory Inventory
	extras    ExtraSource
	logger    *zap.Logger

	armorID  string
	shieldID string
	custom   *modifier.Collection
}

// NewEngine wires an Engine to its read-only collaborators.
//
// Precondition: abilities and inventory must be non-nil. extras and logger may be nil.
func NewEngine(abilities ability.Reader, inventory Inventory, extras ExtraSource, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		abilities: abilities,
		inventory: inventory,
		extras:    extras,
		logger:    logger,
		custom:    modifier.NewCollection(),
	}
}

// CustomModifiers returns the engine's own modifier collection (Dodge,
// Ring of Protection, and so on). Mutations are visible on the next read.
func (e *Engine) CustomModifiers() *modifier.Collection {
	return e.custom
}

// Armor returns the equipped body armor, or nil when unarmored.
func (e *Engine) Armor() *Armor {
	if e.armorID == "" {
		return nil
	}
	a, ok := e.inventory.Armor(e.armorID)
	if !ok {
		return nil
	}
	return a
}

// Shield returns the equipped shield, or nil.
func (e *Engine) Shield() *Armor {
	if e.shieldID == "" {
		return nil
	}
	s, ok := e.inventory.Shield(e.shieldID)
	if !ok {
		return nil
	}
	return s
}

// EquipArmor equips owned body armor by id. An id missing from the
// inventory logs a warning and leaves the engine unchanged.
//
// Postcondition: Returns true iff Armor().ID == id.
func (e *Engine) EquipArmor(id string) bool {
	if _, ok := e.inventory.Armor(id); !ok {
		e.logger.Warn("cannot equip armor: not in inventory", zap.String("item_id", id))
		return false
	}
	e.armorID = id
	return true
}

// EquipShield equips an owned shield by id. An id missing from the
// inventory logs a warning and leaves the engine unchanged.
func (e *Engine) EquipShield(id string) bool {
	if _, ok := e.inventory.Shield(id); !ok {
		e.logger.Warn("cannot equip shield: not in inventory", zap.String("item_id", id))
		return false
	}
	e.shieldID = id
	return true
}

// RemoveArmor unequips body armor.
func (e *Engine) RemoveArmor() { e.armorID = "" }

// RemoveShield unequips the shield.
func (e *Engine) RemoveShield() { e.shieldID = "" }

// Value returns the current armor class.
//
// Postcondition: Value() == modifier.Sum(Breakdown()).
func (e *Engine) Value() int {
	return modifier.Sum(e.Breakdown())
}

// Breakdown lists every contribution in computation order: body armor (or
// the unarmored base), DEX, armor modifiers, shield, shield modifiers,
// extra entries, then custom modifiers.
func (e *Engine) Breakdown() []modifier.Entry {
	dex := e.abilities.Modifier(ability.Dexterity)
	var out []modifier.Entry

	if a := e.Armor(); a != nil {
		out = append(out, modifier.Entry{Label: a.Name, Value: a.BaseAC})
		if a.AllowsDexBonus {
			label := "DEX Modifier"
			if a.MaxDexBonus != nil {
				label = fmt.Sprintf("DEX Modifier (capped +%d)", *a.MaxDexBonus)
			}
			out = append(out, modifier.Entry{Label: label, Value: a.DexContribution(dex)})
		}
		out = append(out, a.Modifiers.Breakdown()...)
	} else {
		out = append(out,
			modifier.Entry{Label: "Unarmored", Value: UnarmoredBase},
			modifier.Entry{Label: "DEX Modifier", Value: dex},
		)
	}

	if s := e.Shield(); s != nil {
		out = append(out, modifier.Entry{Label: s.Name, Value: s.BaseAC})
		out = append(out, s.Modifiers.Breakdown()...)
	}

	if e.extras != nil {
		out = append(out, e.extras.ArmorClassEntries()...)
	}
	return append(out, e.custom.Breakdown()...)
}
