package weapon

import "go.uber.org/zap"

// Inventory resolves owned weapons.
type Inventory interface {
	Weapon(id string) (*Weapon, bool)
	Weapons() []*Weapon
}

// ShieldRemover is called when a two-handed weapon takes the main hand.
type ShieldRemover interface {
	RemoveShield()
}

// Loadout tracks the main-hand and off-hand slots by weapon id.
//
// Until Equip succeeds once, Attacks derives one main-hand attack per owned
// weapon. After that, only the equipped slots produce attacks.
type Loadout struct {
	inventory Inventory
	wielder   Wielder
	shields   ShieldRemover
	logger    *zap.Logger

	mainID   string
	offID    string
	explicit bool
}

// NewLoadout wires a Loadout to its read-only collaborators.
//
// Precondition: inventory and wielder must be non-nil; shields and logger may be nil.
func NewLoadout(inventory Inventory, wielder Wielder, shields ShieldRemover, logger *zap.Logger) *Loadout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loadout{inventory: inventory, wielder: wielder, shields: shields, logger: logger}
}

// Equip places an owned weapon in hand. A weapon missing from the inventory,
// a weapon already held in the other hand, or an unknown hand logs a
// warning and changes nothing. A two-handed weapon placed in the main hand
// clears the off hand and removes the shield.
//
// Postcondition: Returns true iff the weapon now occupies hand.
func (l *Loadout) Equip(id string, hand Hand) bool {
	if !hand.Valid() {
		l.logger.Warn("cannot equip weapon: unknown hand", zap.String("item_id", id), zap.String("slot", string(hand)))
		return false
	}
	w, ok := l.inventory.Weapon(id)
	if !ok {
		l.logger.Warn("cannot equip weapon: not in inventory", zap.String("item_id", id), zap.String("slot", string(hand)))
		return false
	}
	if (hand == MainHand && l.offID == id) || (hand == OffHand && l.mainID == id) {
		l.logger.Warn("cannot equip weapon: already held in the other hand", zap.String("item_id", id), zap.String("slot", string(hand)))
		return false
	}
	if hand == MainHand && w.Has(TwoHanded) {
		l.offID = ""
		if l.shields != nil {
			l.shields.RemoveShield()
		}
	}
	if hand == MainHand {
		l.mainID = id
	} else {
		l.offID = id
	}
	l.explicit = true
	return true
}

// Unequip empties hand.
func (l *Loadout) Unequip(hand Hand) {
	switch hand {
	case MainHand:
		l.mainID = ""
	case OffHand:
		l.offID = ""
	}
}

// Explicit reports whether an Equip call has ever succeeded.
func (l *Loadout) Explicit() bool {
	return l.explicit
}

// MainHand returns the weapon in the main hand, or nil.
func (l *Loadout) MainHand() *Weapon {
	return l.resolve(l.mainID)
}

// OffHand returns the weapon in the off hand, or nil.
func (l *Loadout) OffHand() *Weapon {
	return l.resolve(l.offID)
}

func (l *Loadout) resolve(id string) *Weapon {
	if id == "" {
		return nil
	}
	w, ok := l.inventory.Weapon(id)
	if !ok {
		return nil
	}
	return w
}

// Attacks derives the currently available weapon attacks.
func (l *Loadout) Attacks() []Attack {
	if !l.explicit {
		owned := l.inventory.Weapons()
		out := make([]Attack, 0, len(owned))
		for _, w := range owned {
			out = append(out, Derive(w, MainHand, l.wielder))
		}
		return out
	}
	var out []Attack
	if w := l.MainHand(); w != nil {
		out = append(out, Derive(w, MainHand, l.wielder))
	}
	if w := l.OffHand(); w != nil {
		out = append(out, Derive(w, OffHand, l.wielder))
	}
	return out
}
