package condition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/action"
	"github.com/cory-johannsen/charsheet/internal/game/condition"
)

func TestTracker_AddStampsAppliedAt(t *testing.T) {
	tr := condition.NewTracker()
	before := time.Now()
	tr.Add(condition.Condition{Name: condition.Prone, Duration: condition.Permanent})
	active := tr.Active()
	require.Len(t, active, 1)
	assert.False(t, active[0].AppliedAt.Before(before))

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tr.Add(condition.Condition{Name: condition.Blinded, Duration: 2, AppliedAt: at})
	assert.Equal(t, at, tr.Active()[1].AppliedAt)
}

func TestTracker_ZeroValueIsUsable(t *testing.T) {
	var tr condition.Tracker
	assert.False(t, tr.Has(condition.Prone))
	tr.Add(condition.Condition{Name: condition.Prone, Duration: 1})
	assert.True(t, tr.Has(condition.Prone))
}

func TestTracker_RemoveDeletesEveryMatch(t *testing.T) {
	tr := condition.NewTracker()
	tr.Add(condition.Condition{Name: condition.Poisoned, Duration: 3})
	tr.Add(condition.Condition{Name: condition.Prone, Duration: condition.Permanent})
	tr.Add(condition.Condition{Name: condition.Poisoned, Duration: 1})

	tr.Remove(condition.Poisoned)
	assert.False(t, tr.Has(condition.Poisoned))
	assert.True(t, tr.Has(condition.Prone))
	assert.Equal(t, 1, tr.Len())

	tr.Remove(condition.Stunned)
	assert.Equal(t, 1, tr.Len())
}

func TestTracker_TickExpiresAtZero(t *testing.T) {
	tr := condition.NewTracker()
	tr.Add(condition.Condition{Name: condition.Frightened, Duration: 2})
	tr.Add(condition.Condition{Name: condition.Prone, Duration: condition.Permanent})
	tr.Add(condition.Condition{Name: condition.Stunned, Duration: 1})

	assert.Equal(t, []condition.Name{condition.Stunned}, tr.Tick())
	active := tr.Active()
	require.Len(t, active, 2)
	assert.Equal(t, 1, active[0].Duration)
	assert.Equal(t, condition.Permanent, active[1].Duration)

	assert.Equal(t, []condition.Name{condition.Frightened}, tr.Tick())
	assert.Empty(t, tr.Tick())
	assert.True(t, tr.Has(condition.Prone))
}

func TestTracker_ZeroDurationIsInactive(t *testing.T) {
	tr := condition.NewTracker()
	tr.Add(condition.Condition{Name: condition.Charmed, Duration: 0})
	assert.False(t, tr.Has(condition.Charmed))
	assert.Empty(t, tr.Active())
	assert.Equal(t, []condition.Name{condition.Charmed}, tr.Tick())
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_ActiveReturnsCopy(t *testing.T) {
	tr := condition.NewTracker()
	tr.Add(condition.Condition{Name: condition.Grappled, Duration: 3})
	active := tr.Active()
	active[0].Duration = 99
	assert.Equal(t, 3, tr.Active()[0].Duration)
}

func TestTracker_Restricted(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{
		ID: condition.Incapacitated, Name: "Incapacitated",
		RestrictTimings: []action.Timing{action.TimingAction, action.TimingReaction},
	})
	tr := condition.NewTracker()
	tr.Add(condition.Condition{Name: condition.Prone, Duration: condition.Permanent})
	assert.False(t, tr.Restricted(reg, action.TimingAction), "undefined conditions restrict nothing")

	tr.Add(condition.Condition{Name: condition.Incapacitated, Duration: 1})
	assert.True(t, tr.Restricted(reg, action.TimingAction))
	assert.True(t, tr.Restricted(reg, action.TimingReaction))
	assert.False(t, tr.Restricted(reg, action.TimingBonusAction))
	assert.False(t, tr.Restricted(nil, action.TimingAction))

	tr.Tick()
	assert.False(t, tr.Restricted(reg, action.TimingAction))
}

func TestName_Valid(t *testing.T) {
	for _, n := range condition.Names {
		assert.True(t, n.Valid(), n)
	}
	assert.Len(t, condition.Names, 16)
	assert.False(t, condition.Name("flat_footed").Valid())
}

func TestPropertyTracker_TickNeverLeavesExpired(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr := condition.NewTracker()
		durations := rapid.SliceOf(rapid.IntRange(-1, 5)).Draw(rt, "durations")
		permanent := 0
		for i, d := range durations {
			if d < 0 {
				permanent++
			}
			tr.Add(condition.Condition{Name: condition.Names[i%len(condition.Names)], Duration: d})
		}
		ticks := rapid.IntRange(0, 7).Draw(rt, "ticks")
		for i := 0; i < ticks; i++ {
			tr.Tick()
		}
		for _, c := range tr.Active() {
			assert.True(rt, c.IsPermanent() || c.Duration > 0)
		}
		if ticks >= 5 {
			assert.Equal(rt, permanent, tr.Len(), "only permanent conditions survive five or more ticks")
		}
	})
}
