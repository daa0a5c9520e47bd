package hitpoints_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/damage"
	"github.com/cory-johannsen/charsheet/internal/game/hitpoints"
)

type owner struct {
	con       int
	die       int
	responses map[damage.Type]damage.Response
}

func (o *owner) Modifier(k ability.Key) int {
	if k == ability.Constitution {
		return o.con
	}
	return 0
}

func (o *owner) HitDieSize() int { return o.die }

func (o *owner) DamageResponse(t damage.Type) damage.Response { return o.responses[t] }

func TestNew_DefaultsToD6AtLevelOne(t *testing.T) {
	e := hitpoints.New(&owner{}, 1)
	assert.Equal(t, 6, e.HitDieSize())
	assert.Equal(t, []int{6}, e.HitDiceRolls())
	assert.Equal(t, 6, e.Maximum())
	assert.Equal(t, 6, e.Current())
	assert.True(t, e.IsConscious())
}

func TestNew_HigherLevelsUseAverage(t *testing.T) {
	e := hitpoints.New(&owner{die: 10, con: 2}, 3)
	assert.Equal(t, []int{10, 5, 5}, e.HitDiceRolls())
	assert.Equal(t, 20+6, e.Maximum())
	assert.Equal(t, 26, e.Current())
}

func TestMaximum_FollowsConstitution(t *testing.T) {
	o := &owner{die: 8, con: 1}
	e := hitpoints.New(o, 2)
	assert.Equal(t, 8+4+2, e.Maximum())
	o.con = 3
	assert.Equal(t, 8+4+6, e.Maximum())
	o.con = -1
	assert.Equal(t, 10, e.Maximum())
	assert.Equal(t, 10, e.Current(), "current never reads above maximum")
}

func TestAddLevelHitDie(t *testing.T) {
	e := hitpoints.New(&owner{die: 8, con: 2}, 1)
	require.Equal(t, 10, e.Current())

	assert.Equal(t, 4, e.AddLevelHitDie(nil))
	assert.Equal(t, 16, e.Maximum())
	assert.Equal(t, 16, e.Current())

	roll := 7
	assert.Equal(t, 7, e.AddLevelHitDie(&roll))
	assert.Equal(t, []int{8, 4, 7}, e.HitDiceRolls())
	assert.Equal(t, 25, e.Maximum())
	assert.Equal(t, 25, e.Current())
}

func TestTakeDamage_ResistanceImmunityVulnerability(t *testing.T) {
	cases := []struct {
		name string
		resp damage.Response
		want int
	}{
		{"none", damage.Response{}, 20},
		{"resistance", damage.Response{Resistant: true}, 10},
		{"immunity", damage.Response{Immune: true}, 0},
		{"vulnerability", damage.Response{Vulnerable: true}, 40},
		{"immunity wins", damage.Response{Immune: true, Vulnerable: true}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := &owner{die: 12, responses: map[damage.Type]damage.Response{damage.Fire: tc.resp}}
			e := hitpoints.New(o, 10)
			before := e.Current()
			assert.Equal(t, tc.want, e.TakeDamage(20, damage.Fire, "dragon"))
			assert.Equal(t, max(0, before-tc.want), e.Current())
		})
	}
}

func TestTakeDamage_OtherTypesUnaffected(t *testing.T) {
	o := &owner{die: 12, responses: map[damage.Type]damage.Response{damage.Fire: {Immune: true}}}
	e := hitpoints.New(o, 1)
	e.TakeDamage(5, damage.Cold, "")
	assert.Equal(t, 7, e.Current())
}

func TestTakeDamage_TemporaryAbsorbsFirst(t *testing.T) {
	e := hitpoints.New(&owner{die: 10}, 1)
	e.AddTemporaryHP(5)
	e.TakeDamage(3, damage.Slashing, "")
	assert.Equal(t, 2, e.Temporary())
	assert.Equal(t, 10, e.Current())

	e.TakeDamage(6, damage.Slashing, "")
	assert.Equal(t, 0, e.Temporary())
	assert.Equal(t, 6, e.Current())
}

func TestTakeDamage_DropToZeroKnocksOut(t *testing.T) {
	e := hitpoints.New(&owner{die: 8}, 1)
	e.TakeDamage(50, damage.Bludgeoning, "ogre")
	assert.Equal(t, 0, e.Current())
	assert.False(t, e.IsConscious())
	assert.True(t, e.IsStable())
	assert.False(t, e.IsDead())
}

func TestDeathSaves(t *testing.T) {
	e := hitpoints.New(&owner{die: 8}, 1)
	e.TakeDamage(8, damage.Piercing, "")
	for i := 0; i < 5; i++ {
		e.RecordDeathSave(false)
	}
	assert.Equal(t, 3, e.DeathSaveFailures())
	assert.True(t, e.IsDead())
	assert.False(t, e.IsStable())

	e.Heal(1)
	assert.True(t, e.IsConscious())
	assert.Equal(t, 0, e.DeathSaveFailures())
	assert.False(t, e.IsDead())
}

func TestHeal_CapsAtMaximum(t *testing.T) {
	e := hitpoints.New(&owner{die: 8}, 1)
	e.TakeDamage(5, damage.Acid, "")
	e.Heal(100)
	assert.Equal(t, 8, e.Current())
}

func TestHeal_ZeroKeepsUnconscious(t *testing.T) {
	e := hitpoints.New(&owner{die: 8}, 1)
	e.TakeDamage(8, damage.Acid, "")
	e.RecordDeathSave(true)
	e.Heal(0)
	assert.False(t, e.IsConscious())
	assert.Equal(t, 1, e.DeathSaveSuccesses())
}

func TestAddTemporaryHP_DoesNotStack(t *testing.T) {
	e := hitpoints.New(&owner{}, 1)
	e.AddTemporaryHP(5)
	e.AddTemporaryHP(3)
	assert.Equal(t, 5, e.Temporary())

	e2 := hitpoints.New(&owner{}, 1)
	e2.AddTemporaryHP(10)
	e2.AddTemporaryHP(3)
	assert.Equal(t, 10, e2.Temporary())
}

func TestResetHealth(t *testing.T) {
	e := hitpoints.New(&owner{die: 8}, 2)
	e.AddTemporaryHP(4)
	e.TakeDamage(30, damage.Fire, "")
	e.RecordDeathSave(false)
	e.ResetHealth()
	st := e.State()
	assert.Equal(t, st.Maximum, st.Current)
	assert.Equal(t, 0, st.Temporary)
	assert.Equal(t, 0, st.DeathSaveFailures)
	assert.True(t, st.Conscious)
}

func TestProperty_HitPointInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		o := &owner{die: rapid.SampledFrom([]int{6, 8, 10, 12}).Draw(rt, "die"), con: rapid.IntRange(-1, 5).Draw(rt, "con")}
		e := hitpoints.New(o, rapid.IntRange(1, 20).Draw(rt, "level"))
		steps := rapid.IntRange(0, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				e.TakeDamage(rapid.IntRange(0, 40).Draw(rt, "dmg"), damage.Fire, "")
			case 1:
				e.Heal(rapid.IntRange(0, 40).Draw(rt, "heal"))
			case 2:
				before := e.Temporary()
				amount := rapid.IntRange(0, 20).Draw(rt, "temp")
				e.AddTemporaryHP(amount)
				assert.Equal(rt, max(before, amount), e.Temporary())
			case 3:
				o.con = rapid.IntRange(-1, 5).Draw(rt, "con")
			}
			assert.GreaterOrEqual(rt, e.Current(), 0)
			assert.LessOrEqual(rt, e.Current(), max(0, e.Maximum()))
			assert.GreaterOrEqual(rt, e.Temporary(), 0)
		}
	})
}
