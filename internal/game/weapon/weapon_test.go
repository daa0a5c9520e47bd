package weapon_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/damage"
	"github.com/cory-johannsen/charsheet/internal/game/modifier"
	"github.com/cory-johannsen/charsheet/internal/game/weapon"
)

type wielder struct {
	mods     map[ability.Key]int
	level    int
	profs    []string
	features map[string]bool
}

func (w *wielder) Modifier(k ability.Key) int { return w.mods[k] }
func (w *wielder) ProficiencyBonus() int { return ability.ProficiencyBonus(w.level) }
func (w *wielder) WeaponProficiencies() []string { return w.profs }
func (w *wielder) HasFeature(id string) bool { return w.features[id] }

type armory struct{ items []*weapon.Weapon }

func (a *armory) Weapon(id string) (*weapon.Weapon, bool) {
	for _, w := range a.items {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

func (a *armory) Weapons() []*weapon.Weapon { return a.items }

type shieldSpy struct{ removed int }

func (s *shieldSpy) RemoveShield() { s.removed++ }

func longsword() *weapon.Weapon {
	return &weapon.Weapon{
		ID: "longsword", Name: "Longsword", Category: weapon.CategoryMelee, Type: weapon.TypeMartialMelee,
		Prototype: "longsword", DamageDice: "1d8", VersatileDice: "1d10", DamageType: damage.Slashing,
		DamageModifier: ability.Strength, Properties: []weapon.Property{weapon.Versatile},
		Modifiers: modifier.NewCollection(),
	}
}

func shortsword() *weapon.Weapon {
	return &weapon.Weapon{
		ID: "shortsword", Name: "Shortsword", Category: weapon.CategoryMelee, Type: weapon.TypeMartialMelee,
		Prototype: "shortsword", DamageDice: "1d6", DamageType: damage.Piercing,
		DamageModifier: ability.Dexterity, Properties: []weapon.Property{weapon.Finesse, weapon.Light},
		Modifiers: modifier.NewCollection(),
	}
}

func greatsword() *weapon.Weapon {
	return &weapon.Weapon{
		ID: "greatsword", Name: "Greatsword", Category: weapon.CategoryMelee, Type: weapon.TypeMartialMelee,
		Prototype: "greatsword", DamageDice: "2d6", DamageType: damage.Slashing,
		DamageModifier: ability.Strength, Properties: []weapon.Property{weapon.Heavy, weapon.TwoHanded},
		Modifiers: modifier.NewCollection(),
	}
}

func fighter() *wielder {
	return &wielder{
		mods:  map[ability.Key]int{ability.Strength: 3, ability.Dexterity: 2},
		level: 1,
		profs: []string{string(weapon.TypeMartialMelee)},
	}
}

func TestDerive_ProficientAttackBonus(t *testing.T) {
	a := weapon.Derive(longsword(), weapon.MainHand, fighter())
	assert.Equal(t, 3+2, a.AttackBonus)
	assert.True(t, a.Proficient)
	assert.Equal(t, "attack-longsword", a.ID)
	assert.Equal(t, "Longsword: 1d20 + 5", a.Roll.Label)
	assert.Equal(t, "1d8 + 3", a.Damage.Label)
	assert.Equal(t, 3, a.Damage.Modifier)
	assert.Equal(t, a.AttackBonus, modifier.Sum(a.Roll.Breakdown))
}

func TestDerive_NotProficient(t *testing.T) {
	w := fighter()
	w.profs = nil
	a := weapon.Derive(longsword(), weapon.MainHand, w)
	assert.Equal(t, 3, a.AttackBonus)
	assert.False(t, a.Proficient)
}

func TestDerive_ProficiencyByPrototype(t *testing.T) {
	w := fighter()
	w.profs = []string{"longsword"}
	assert.True(t, weapon.Derive(longsword(), weapon.MainHand, w).Proficient)
	assert.False(t, weapon.Derive(shortsword(), weapon.MainHand, w).Proficient)
}

func TestDerive_WeaponModifiersAddToAttackOnly(t *testing.T) {
	sword := longsword()
	sword.Modifiers.Add(&modifier.Modifier{ID: "plus1", Value: 1, Label: "+1 Weapon", Source: modifier.SourceItem, Active: true})
	a := weapon.Derive(sword, weapon.MainHand, fighter())
	assert.Equal(t, 6, a.AttackBonus)
	assert.Equal(t, 3, a.Damage.Modifier)
}

func TestDerive_OffHandSuppressesDamageModifier(t *testing.T) {
	w := fighter()
	a := weapon.Derive(shortsword(), weapon.OffHand, w)
	assert.Equal(t, 0, a.Damage.Modifier)
	assert.Equal(t, "1d6 + 0", a.Damage.Label)
	assert.Equal(t, 4, a.AttackBonus, "attack bonus keeps the ability modifier")

	w.features = map[string]bool{weapon.DualWielderFeatureID: true}
	a = weapon.Derive(shortsword(), weapon.OffHand, w)
	assert.Equal(t, 2, a.Damage.Modifier)
}

func TestDerive_NegativeModifierLabel(t *testing.T) {
	w := fighter()
	w.mods[ability.Strength] = -1
	w.profs = nil
	a := weapon.Derive(longsword(), weapon.MainHand, w)
	assert.Equal(t, "Longsword: 1d20 - 1", a.Roll.Label)
	assert.Equal(t, "1d8 - 1", a.Damage.Label)
}

func TestLoadout_LegacyModeUsesAllOwnedWeapons(t *testing.T) {
	inv := &armory{items: []*weapon.Weapon{longsword(), shortsword()}}
	l := weapon.NewLoadout(inv, fighter(), nil, nil)
	attacks := l.Attacks()
	require.Len(t, attacks, 2)
	assert.False(t, l.Explicit())
	for _, a := range attacks {
		assert.Equal(t, weapon.MainHand, a.Hand)
	}
}

func TestLoadout_ExplicitModeUsesSlots(t *testing.T) {
	inv := &armory{items: []*weapon.Weapon{longsword(), shortsword(), greatsword()}}
	l := weapon.NewLoadout(inv, fighter(), nil, nil)
	require.True(t, l.Equip("longsword", weapon.MainHand))
	require.True(t, l.Equip("shortsword", weapon.OffHand))

	attacks := l.Attacks()
	require.Len(t, attacks, 2)
	assert.Equal(t, "longsword", attacks[0].WeaponID)
	assert.Equal(t, weapon.OffHand, attacks[1].Hand)

	l.Unequip(weapon.OffHand)
	assert.Len(t, l.Attacks(), 1)
	l.Unequip(weapon.MainHand)
	assert.Empty(t, l.Attacks())
	assert.True(t, l.Explicit())
}

func TestLoadout_EquipMissingWeaponWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	inv := &armory{items: []*weapon.Weapon{longsword()}}
	l := weapon.NewLoadout(inv, fighter(), nil, zap.New(core))

	assert.False(t, l.Equip("vorpal", weapon.MainHand))
	assert.False(t, l.Equip("longsword", "tail"))
	assert.Nil(t, l.MainHand())
	assert.False(t, l.Explicit())
	assert.Len(t, l.Attacks(), 1, "failed equips leave legacy mode in place")
	assert.Equal(t, 2, logs.Len())
}

func TestLoadout_SameWeaponCannotFillBothHands(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	inv := &armory{items: []*weapon.Weapon{shortsword()}}
	l := weapon.NewLoadout(inv, fighter(), nil, zap.New(core))

	require.True(t, l.Equip("shortsword", weapon.MainHand))
	assert.False(t, l.Equip("shortsword", weapon.OffHand))
	assert.Nil(t, l.OffHand())
	require.Len(t, l.Attacks(), 1)
	assert.Equal(t, weapon.MainHand, l.Attacks()[0].Hand)
	assert.Equal(t, 1, logs.FilterMessage("cannot equip weapon: already held in the other hand").Len())

	l.Unequip(weapon.MainHand)
	assert.True(t, l.Equip("shortsword", weapon.OffHand))
	assert.False(t, l.Equip("shortsword", weapon.MainHand))
}

func TestLoadout_TwoHandedClearsOffHandAndShield(t *testing.T) {
	inv := &armory{items: []*weapon.Weapon{greatsword(), shortsword()}}
	spy := &shieldSpy{}
	l := weapon.NewLoadout(inv, fighter(), spy, nil)
	require.True(t, l.Equip("shortsword", weapon.OffHand))
	require.True(t, l.Equip("greatsword", weapon.MainHand))

	assert.Nil(t, l.OffHand())
	assert.Equal(t, "greatsword", l.MainHand().ID)
	assert.Equal(t, 1, spy.removed)
}

func TestLoadout_OneHandedKeepsShield(t *testing.T) {
	inv := &armory{items: []*weapon.Weapon{longsword()}}
	spy := &shieldSpy{}
	l := weapon.NewLoadout(inv, fighter(), spy, nil)
	require.True(t, l.Equip("longsword", weapon.MainHand))
	assert.Equal(t, 0, spy.removed)
}

func TestWeapon_Validate(t *testing.T) {
	assert.NoError(t, longsword().Validate())

	bad := longsword()
	bad.DamageDice = "eight"
	bad.DamageType = "sonic"
	bad.DamageModifier = "luck"
	bad.Properties = append(bad.Properties, "spiky")
	err := bad.Validate()
	require.Error(t, err)
	for _, want := range []string{"damage_dice", "damage_type", "damage_modifier", "spiky"} {
		assert.Contains(t, err.Error(), want)
	}

	noVersatile := longsword()
	noVersatile.Properties = nil
	assert.Error(t, noVersatile.Validate())
}

func TestWeapon_CloneIsIndependent(t *testing.T) {
	orig := shortsword()
	cp := orig.Clone()
	cp.Properties[0] = weapon.Heavy
	cp.Modifiers.Add(&modifier.Modifier{ID: "x", Value: 2, Label: "x", Source: modifier.SourceItem, Active: true})
	assert.True(t, orig.Has(weapon.Finesse))
	assert.Equal(t, 0, orig.Modifiers.Total())
}

func TestLoad_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rapier.yaml"), []byte(`
id: rapier
name: Rapier
category: melee
type: martial_melee
prototype: rapier
damage_dice: 1d8
damage_type: piercing
damage_modifier: DEX
properties: [finesse]
`), 0644))
	got, err := weapon.Load(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ability.Dexterity, got[0].DamageModifier)
	assert.True(t, got[0].Has(weapon.Finesse))
	assert.NotNil(t, got[0].Modifiers)
}

func TestLoad_InvalidWeaponFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\nname: Bad\n"), 0644))
	_, err := weapon.Load(dir)
	assert.Error(t, err)
}

func TestProperty_AttackBonusFormula(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		str := rapid.IntRange(-5, 10).Draw(rt, "str")
		level := rapid.IntRange(1, 20).Draw(rt, "level")
		bonus := rapid.IntRange(-3, 3).Draw(rt, "bonus")
		proficient := rapid.Bool().Draw(rt, "proficient")

		w := fighter()
		w.mods[ability.Strength] = str
		w.level = level
		if !proficient {
			w.profs = nil
		}
		sword := longsword()
		sword.Modifiers.Add(&modifier.Modifier{ID: "b", Value: bonus, Label: "b", Source: modifier.SourceItem, Active: true})

		want := str + bonus
		if proficient {
			want += ability.ProficiencyBonus(level)
		}
		a := weapon.Derive(sword, weapon.MainHand, w)
		assert.Equal(rt, want, a.AttackBonus)
		assert.Equal(rt, a.AttackBonus, modifier.Sum(a.Roll.Breakdown))
	})
}
