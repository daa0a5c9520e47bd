package action

// DefaultSpeed is the movement budget when the character has no race.
const DefaultSpeed = 30

// SpeedSource supplies the per-turn movement budget.
type SpeedSource interface {
	Speed() int
}

// Economy is the per-turn action budget. The spent flags are set directly by
// the caller; ResetTurn is the only transition back to a fresh turn.
type Economy struct {
	ActionSpent      bool
	BonusActionSpent bool
	ReactionSpent    bool
	Movement         int

	speed SpeedSource
}

// NewEconomy creates a fresh turn. A nil speed source yields DefaultSpeed.
func NewEconomy(speed SpeedSource) *Economy {
	return &Economy{speed: speed}
}

// MaxMovement returns the movement budget in feet.
func (e *Economy) MaxMovement() int {
	if e.speed == nil {
		return DefaultSpeed
	}
	return e.speed.Speed()
}

// ResetTurn clears every spent flag and zeroes movement.
//
// Postcondition: all spent flags are false and Movement == 0.
func (e *Economy) ResetTurn() {
	e.ActionSpent = false
	e.BonusActionSpent = false
	e.ReactionSpent = false
	e.Movement = 0
}

// Move spends feet of movement.
//
// Postcondition: Returns false and leaves Movement unchanged when feet is
// negative or the total would exceed MaxMovement.
func (e *Economy) Move(feet int) bool {
	if feet < 0 || e.Movement+feet > e.MaxMovement() {
		return false
	}
	e.Movement += feet
	return true
}

// RemainingMovement returns the unspent movement, never below zero.
func (e *Economy) RemainingMovement() int {
	return max(0, e.MaxMovement()-e.Movement)
}

// Available reports whether an action of timing t can still be taken this turn.
// Movement and free timings are always available.
func (e *Economy) Available(t Timing) bool {
	switch t {
	case TimingAction:
		return !e.ActionSpent
	case TimingBonusAction:
		return !e.BonusActionSpent
	case TimingReaction:
		return !e.ReactionSpent
	}
	return true
}

// Filter returns the actions whose timing is available and not blocked.
// blocked may be nil.
func (e *Economy) Filter(actions []Action, blocked func(Timing) bool) []Action {
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if !e.Available(a.Timing) {
			continue
		}
		if blocked != nil && blocked(a.Timing) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// State is the serializable form of the economy.
type State struct {
	ActionSpent      bool `json:"action_spent"`
	BonusActionSpent bool `json:"bonus_action_spent"`
	ReactionSpent    bool `json:"reaction_spent"`
	Movement         int  `json:"movement"`
	MaxMovement      int  `json:"max_movement"`
}

// State captures the current flags.
func (e *Economy) State() State {
	return State{
		ActionSpent:      e.ActionSpent,
		BonusActionSpent: e.BonusActionSpent,
		ReactionSpent:    e.ReactionSpent,
		Movement:         e.Movement,
		MaxMovement:      e.MaxMovement(),
	}
}
