// Package matchtypes defines the engine's core domain types: player slots,
// lifecycle phases, fighter state, and the score model.
package matchtypes

// SlotID identifies one of the two combatant slots.
type SlotID string

const (
	SlotPlayer1 SlotID = "player1"
	SlotPlayer2 SlotID = "player2"
)

// Slots returns the two combatant slots in display order.
func Slots() [2]SlotID {
	return [2]SlotID{SlotPlayer1, SlotPlayer2}
}

// Valid reports whether s names one of the two combatant slots.
func (s SlotID) Valid() bool {
	return s == SlotPlayer1 || s == SlotPlayer2
}

// Opponent returns the other combatant slot, or "" for an invalid slot.
func (s SlotID) Opponent() SlotID {
	switch s {
	case SlotPlayer1:
		return SlotPlayer2
	case SlotPlayer2:
		return SlotPlayer1
	}
	return ""
}

// Phase is the match lifecycle phase.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhasePlaying  Phase = "playing"
	PhaseRoundEnd Phase = "round_end"
	PhaseGameOver Phase = "game_over"
)

// Ordinal maps the phase onto a stable numeric code for gauges.
func (p Phase) Ordinal() int {
	switch p {
	case PhasePlaying:
		return 1
	case PhaseRoundEnd:
		return 2
	case PhaseGameOver:
		return 3
	default:
		return 0
	}
}

// CanTransition reports whether the round lifecycle permits moving from p to
// next. Resets (a fresh game start, an exit to menu) bypass this table; it
// governs only the forward flow of a running match. In particular a match
// never jumps from playing straight to game_over: the deciding round must
// pass through round_end first.
func (p Phase) CanTransition(next Phase) bool {
	switch p {
	case PhaseIdle:
		return next == PhasePlaying
	case PhasePlaying:
		return next == PhaseRoundEnd
	case PhaseRoundEnd:
		return next == PhasePlaying || next == PhaseGameOver
	default:
		return false
	}
}

// FighterState is the coarse combat state of a fighter, mirrored from the
// host for presentation and record keeping.
type FighterState string

const (
	FighterIdle      FighterState = "idle"
	FighterWalking   FighterState = "walking"
	FighterJumping   FighterState = "jumping"
	FighterAttacking FighterState = "attacking"
	FighterHurt      FighterState = "hurt"
	FighterDefeated  FighterState = "defeated"
)

// Position is a 2D stage position, mirrored for presentation only.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HealthEpsilon is the floor below which a health value snaps to zero, so
// accumulated float error from fractional damage cannot leave a fighter
// standing on a sliver that displays as empty.
const HealthEpsilon = 0.01

// ClampHealth clamps health into [0, max] and snaps sub-epsilon values to
// zero.
func ClampHealth(health, max float64) float64 {
	if health > max {
		health = max
	}
	if health < HealthEpsilon {
		health = 0
	}
	return health
}

// Player is one combatant's engine-visible state. Alive is derived: it holds
// exactly when Health is above zero, and the state store re-derives it on
// every health write.
type Player struct {
	Slot      SlotID       `json:"slot"`
	Name      string       `json:"name"`
	Health    float64      `json:"health"`
	MaxHealth float64      `json:"maxHealth"`
	Position  Position     `json:"position"`
	State     FighterState `json:"state"`
	Alive     bool         `json:"alive"`
}
