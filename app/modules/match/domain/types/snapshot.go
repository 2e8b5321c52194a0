package matchtypes

// Snapshot is a deep copy of the engine state at one instant, safe to hand
// across API boundaries. Mutating a snapshot never touches the store.
type Snapshot struct {
	MatchID     string            `json:"matchId"`
	Mode        ModeDescriptor    `json:"mode"`
	Phase       Phase             `json:"phase"`
	Round       int               `json:"round"`
	LocalSlot   SlotID            `json:"localSlot"`
	Players     map[SlotID]Player `json:"players"`
	Score       Score             `json:"score"`
	TimerRaw    float64           `json:"timerRaw"`
	RoundWinner SlotID            `json:"roundWinner,omitempty"`
	MatchWinner SlotID            `json:"matchWinner,omitempty"`
}

// Player returns the player in slot, if present.
func (s Snapshot) Player(slot SlotID) (Player, bool) {
	p, ok := s.Players[slot]
	return p, ok
}

// IsTimeAttack applies the time-attack heuristic to this snapshot.
func (s Snapshot) IsTimeAttack() bool {
	return IsTimeAttack(s.Mode.MaxRounds, s.Score)
}
