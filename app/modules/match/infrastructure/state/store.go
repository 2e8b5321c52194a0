// Package matchstate holds the authoritative match state behind a single
// mutex. The match service is the only writer; presentation readers get
// deep-copied snapshots and must never see interior pointers.
package matchstate

import (
	"sync"

	matchclock "github.com/duelyard/fightcore/app/modules/match/domain/clock"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
)

// UpdateStatus tags the outcome of a store mutation. Rejections are ordinary
// outcomes, not errors: late facts racing scene teardown are expected.
type UpdateStatus int

const (
	UpdateApplied UpdateStatus = iota
	UpdateIgnoredUnknownSlot
)

func (s UpdateStatus) String() string {
	switch s {
	case UpdateApplied:
		return "applied"
	case UpdateIgnoredUnknownSlot:
		return "ignored_unknown_slot"
	}
	return "unknown"
}

// PlayerPatch is a partial player update. Nil fields are left untouched.
type PlayerPatch struct {
	Health    *float64
	MaxHealth *float64
	Position  *matchtypes.Position
	State     *matchtypes.FighterState
	Name      *string
}

// UpdateResult reports what a player mutation did. Player is a value copy of
// the post-update state and is only meaningful when Status is UpdateApplied.
type UpdateResult struct {
	Status        UpdateStatus
	HealthChanged bool
	Player        matchtypes.Player
}

// Store is the match/round state store.
type Store struct {
	mu sync.RWMutex

	players       map[matchtypes.SlotID]*matchtypes.Player
	score         matchtypes.Score
	phase         matchtypes.Phase
	mode          matchtypes.ModeDescriptor
	matchID       string
	localSlot     matchtypes.SlotID
	round         int
	resolvedRound int
	timerRaw      float64
	roundWinner   matchtypes.SlotID
	matchWinner   matchtypes.SlotID
}

// New returns an idle store with an empty roster and a hidden timer.
func New() *Store {
	return &Store{
		players:  make(map[matchtypes.SlotID]*matchtypes.Player),
		score:    matchtypes.Score{matchtypes.SlotPlayer1: 0, matchtypes.SlotPlayer2: 0},
		phase:    matchtypes.PhaseIdle,
		timerRaw: matchclock.EncodeHidden(),
	}
}

// BeginMatch clears the roster and installs the identity of a fresh match.
// It does not touch the score; resetting that is an explicit, separate
// operation so round transitions can never erase it by accident.
func (s *Store) BeginMatch(matchID string, mode matchtypes.ModeDescriptor, localSlot matchtypes.SlotID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[matchtypes.SlotID]*matchtypes.Player)
	s.matchID = matchID
	s.mode = mode
	s.localSlot = localSlot
	s.round = 1
	s.resolvedRound = 0
	s.roundWinner = ""
	s.matchWinner = ""
}

// AddPlayer inserts or replaces a player by slot id. Slot ids outside the
// two combatant slots are ignored, which also caps the roster at two.
func (s *Store) AddPlayer(p matchtypes.Player) UpdateStatus {
	if !p.Slot.Valid() {
		return UpdateIgnoredUnknownSlot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Health = matchtypes.ClampHealth(p.Health, p.MaxHealth)
	p.Alive = p.Health > 0
	s.players[p.Slot] = &p
	return UpdateApplied
}

// UpdatePlayer merges a partial update into an existing player. Unknown
// slots are a silent no-op: scene teardown and fact delivery are not
// ordered, so late updates for cleared fighters are routine.
func (s *Store) UpdatePlayer(slot matchtypes.SlotID, patch PlayerPatch) UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[slot]
	if !ok {
		return UpdateResult{Status: UpdateIgnoredUnknownSlot}
	}
	if patch.MaxHealth != nil {
		p.MaxHealth = *patch.MaxHealth
	}
	oldHealth := p.Health
	if patch.Health != nil {
		p.Health = *patch.Health
	}
	// Re-clamp after any write: a max-health change alone can push the
	// stored health out of range.
	p.Health = matchtypes.ClampHealth(p.Health, p.MaxHealth)
	p.Alive = p.Health > 0
	if patch.Position != nil {
		p.Position = *patch.Position
	}
	if patch.State != nil {
		p.State = *patch.State
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	return UpdateResult{
		Status:        UpdateApplied,
		HealthChanged: p.Health != oldHealth,
		Player:        *p,
	}
}

// Player returns a value copy of the player in slot, if present.
func (s *Store) Player(slot matchtypes.SlotID) (matchtypes.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[slot]
	if !ok {
		return matchtypes.Player{}, false
	}
	return *p, true
}

// PlayerCount returns the number of occupied slots.
func (s *Store) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// HealAll restores every fighter to full health in a neutral state, as at
// the start of a round.
func (s *Store) HealAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.Health = p.MaxHealth
		p.Alive = p.Health > 0
		p.State = matchtypes.FighterIdle
	}
}

// Phase returns the current lifecycle phase.
func (s *Store) Phase() matchtypes.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// SetPhase overwrites the lifecycle phase unconditionally. Transition
// legality belongs to the lifecycle controller, not the store.
func (s *Store) SetPhase(p matchtypes.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}

// Score returns an independent copy of the match score.
func (s *Store) Score() matchtypes.Score {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score.Clone()
}

// OverwriteScore replaces the match score with exact values from an
// authoritative source. Never an increment.
func (s *Store) OverwriteScore(score matchtypes.Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.score = score.Clone()
}

// AddWin credits one round win to slot.
func (s *Store) AddWin(slot matchtypes.SlotID) UpdateStatus {
	if !slot.Valid() {
		return UpdateIgnoredUnknownSlot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.score[slot]++
	return UpdateApplied
}

// ResetMatch zeroes the match score for both slots without touching player
// health. Used between matches, never between rounds.
func (s *Store) ResetMatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.score = matchtypes.Score{matchtypes.SlotPlayer1: 0, matchtypes.SlotPlayer2: 0}
}

// Round returns the current round number, starting at 1.
func (s *Store) Round() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.round
}

// NextRound advances the round counter and clears the last round winner.
func (s *Store) NextRound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.round++
	s.roundWinner = ""
	return s.round
}

// TryResolveRound marks round as resolved, reporting false when it already
// was. This is the idempotence guard against duplicate terminal facts.
func (s *Store) TryResolveRound(round int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round <= s.resolvedRound {
		return false
	}
	s.resolvedRound = round
	return true
}

// TimerRaw returns the raw timer channel value.
func (s *Store) TimerRaw() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timerRaw
}

// SetTimerRaw overwrites the raw timer channel value.
func (s *Store) SetTimerRaw(raw float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timerRaw = raw
}

// RoundWinner returns the winner of the last resolved round, if any.
func (s *Store) RoundWinner() matchtypes.SlotID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roundWinner
}

// SetRoundWinner records the winner of the round being resolved.
func (s *Store) SetRoundWinner(slot matchtypes.SlotID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roundWinner = slot
}

// SetMatchWinner records the overall match winner.
func (s *Store) SetMatchWinner(slot matchtypes.SlotID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchWinner = slot
}

// ClearRoundState resets the in-flight round bookkeeping (phase, winners)
// without touching score or roster. This is the exit-to-menu path.
func (s *Store) ClearRoundState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = matchtypes.PhaseIdle
	s.roundWinner = ""
	s.matchWinner = ""
}

// Mode returns the active mode descriptor.
func (s *Store) Mode() matchtypes.ModeDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// LocalSlot returns the slot designated as the local player.
func (s *Store) LocalSlot() matchtypes.SlotID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localSlot
}

// MatchID returns the identity of the running match.
func (s *Store) MatchID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchID
}

// Snapshot returns a deep copy of the entire store state.
func (s *Store) Snapshot() matchtypes.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make(map[matchtypes.SlotID]matchtypes.Player, len(s.players))
	for slot, p := range s.players {
		players[slot] = *p
	}
	return matchtypes.Snapshot{
		MatchID:     s.matchID,
		Mode:        s.mode,
		Phase:       s.phase,
		Round:       s.round,
		LocalSlot:   s.localSlot,
		Players:     players,
		Score:       s.score.Clone(),
		TimerRaw:    s.timerRaw,
		RoundWinner: s.roundWinner,
		MatchWinner: s.matchWinner,
	}
}
