package character

import (
	"github.com/cory-johannsen/charsheet/internal/game/armor"
	"github.com/cory-johannsen/charsheet/internal/game/weapon"
)

// inventory is the read-only view of owned gear handed to the armor engine
// and the weapon loadout.
type inventory struct {
	c *Character
}

func (i inventory) Armor(id string) (*armor.Armor, bool) {
	for _, a := range i.c.armor {
		if a.ID == id && !a.IsShield() {
			return a, true
		}
	}
	return nil, false
}

func (i inventory) Shield(id string) (*armor.Armor, bool) {
	for _, a := range i.c.armor {
		if a.ID == id && a.IsShield() {
			return a, true
		}
	}
	return nil, false
}

func (i inventory) Weapon(id string) (*weapon.Weapon, bool) {
	for _, w := range i.c.weapons {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

func (i inventory) Weapons() []*weapon.Weapon {
	return i.c.OwnedWeapons()
}

// AddWeapon adds w to the weapon inventory. A weapon with the same id
// replaces the owned one.
//
// Precondition: w should be a per-character copy.
func (c *Character) AddWeapon(w *weapon.Weapon) {
	for i, owned := range c.weapons {
		if owned.ID == w.ID {
			c.weapons[i] = w
			return
		}
	}
	c.weapons = append(c.weapons, w)
}

// RemoveWeapon drops the weapon with id from the inventory. An equipped
// weapon that leaves the inventory stops producing attacks.
func (c *Character) RemoveWeapon(id string) bool {
	for i, w := range c.weapons {
		if w.ID == id {
			c.weapons = append(c.weapons[:i], c.weapons[i+1:]...)
			return true
		}
	}
	return false
}

// OwnedWeapons returns the weapon inventory in acquisition order.
func (c *Character) OwnedWeapons() []*weapon.Weapon {
	out := make([]*weapon.Weapon, len(c.weapons))
	copy(out, c.weapons)
	return out
}

// AddArmor adds body armor or a shield to the inventory. An item with the
// same id replaces the owned one.
//
// Precondition: a should be a per-character copy.
func (c *Character) AddArmor(a *armor.Armor) {
	for i, owned := range c.armor {
		if owned.ID == a.ID {
			c.armor[i] = a
			return
		}
	}
	c.armor = append(c.armor, a)
}

// RemoveArmor drops the armor or shield with id from the inventory.
func (c *Character) RemoveArmor(id string) bool {
	for i, a := range c.armor {
		if a.ID == id {
			c.armor = append(c.armor[:i], c.armor[i+1:]...)
			return true
		}
	}
	return false
}

// OwnedArmor returns the armor and shield inventory in acquisition order.
func (c *Character) OwnedArmor() []*armor.Armor {
	out := make([]*armor.Armor, len(c.armor))
	copy(out, c.armor)
	return out
}

// EquipArmor equips owned body armor. See armor.Engine.EquipArmor.
func (c *Character) EquipArmor(id string) bool {
	return c.AC.EquipArmor(id)
}

// EquipShield equips an owned shield. See armor.Engine.EquipShield.
func (c *Character) EquipShield(id string) bool {
	return c.AC.EquipShield(id)
}

// EquipWeapon places an owned weapon in hand. See weapon.Loadout.Equip.
func (c *Character) EquipWeapon(id string, hand weapon.Hand) bool {
	return c.Loadout.Equip(id, hand)
}

// AvailableAttacks derives the weapon attacks from the current loadout.
func (c *Character) AvailableAttacks() []weapon.Attack {
	return c.Loadout.Attacks()
}
