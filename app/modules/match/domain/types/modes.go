package matchtypes

import (
	matchclock "github.com/duelyard/fightcore/app/modules/match/domain/clock"
)

// ModeName names a game mode.
type ModeName string

const (
	ModeNormal     ModeName = "normal"
	ModeTournament ModeName = "tournament"
	ModeSurvival   ModeName = "survival"
	ModeTimeAttack ModeName = "time_attack"
)

// ModeDescriptor is the engine-facing description of a game mode. MaxRounds
// is the number of round wins that takes the match; zero means the match has
// no fixed win target and ends only on an external game-over fact.
type ModeDescriptor struct {
	Name      ModeName        `json:"name"`
	MaxRounds int             `json:"maxRounds"`
	Timer     matchclock.Kind `json:"timer"`
}

// DefaultModes returns the four stock mode descriptors.
func DefaultModes() map[ModeName]ModeDescriptor {
	return map[ModeName]ModeDescriptor{
		ModeNormal:     {Name: ModeNormal, MaxRounds: 2, Timer: matchclock.KindCountdown},
		ModeTournament: {Name: ModeTournament, MaxRounds: 3, Timer: matchclock.KindCountdown},
		ModeSurvival:   {Name: ModeSurvival, MaxRounds: 0, Timer: matchclock.KindHidden},
		ModeTimeAttack: {Name: ModeTimeAttack, MaxRounds: 0, Timer: matchclock.KindElapsed},
	}
}

// Decided reports whether the score settles the match under this mode: some
// slot has at least one win and has reached the win target. Modes without a
// win target never decide on score.
func (m ModeDescriptor) Decided(score Score) bool {
	if m.MaxRounds <= 0 {
		return false
	}
	for _, slot := range Slots() {
		if wins := score[slot]; wins > 0 && wins >= m.MaxRounds {
			return true
		}
	}
	return false
}

// Leader returns the slot currently ahead on score, or "" on a tie.
func (m ModeDescriptor) Leader(score Score) SlotID {
	switch {
	case score[SlotPlayer1] > score[SlotPlayer2]:
		return SlotPlayer1
	case score[SlotPlayer2] > score[SlotPlayer1]:
		return SlotPlayer2
	}
	return ""
}

// IsTimeAttack reports whether a running match behaves like time attack.
// The check is a heuristic inherited from the HUD contract: no fixed win
// target and a nonzero player-two tally. A targetless run that credits
// player two for any other reason is misclassified; consumers accept that in
// exchange for not threading mode identity through every indicator.
func IsTimeAttack(maxRounds int, score Score) bool {
	return maxRounds == 0 && score[SlotPlayer2] > 0
}
