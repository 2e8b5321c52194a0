// Package statstypes holds the session stats log: per-match round breakdowns,
// health timelines, and the tallies derived from them.
package statstypes

import (
	"time"

	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
)

// FighterLine captures an end-of-round snapshot for one slot.
type FighterLine struct {
	Slot      matchtypes.SlotID `json:"slot"`
	Name      string            `json:"name"`
	Health    float64           `json:"health"`
	MaxHealth float64           `json:"maxHealth"`
	Won       bool              `json:"won"`
}

// RoundLine stores one finished round.
type RoundLine struct {
	Index    int               `json:"index"` // 1-based
	Winner   matchtypes.SlotID `json:"winner,omitempty"`
	Score    [2]int            `json:"score"` // [P1 wins, P2 wins] after the round
	Fighters []FighterLine     `json:"fighters,omitempty"`
}

// HealthSample is one point on a match's health timeline.
type HealthSample struct {
	Seconds float64           `json:"seconds"` // since match start
	Slot    matchtypes.SlotID `json:"slot"`
	Health  float64           `json:"health"`
}

// MatchLog aggregates one match.
type MatchLog struct {
	MatchID   string            `json:"matchId"`
	Mode      string            `json:"mode"`
	StartedAt time.Time         `json:"startedAt"`
	Duration  time.Duration     `json:"duration"`
	Winner    matchtypes.SlotID `json:"winner,omitempty"`
	Wins      [2]int            `json:"wins"`
	LastRound int               `json:"lastRound"`
	Rounds    []RoundLine       `json:"rounds"`
	Timeline  []HealthSample    `json:"timeline,omitempty"`
	Finished  bool              `json:"finished"`
}

// SessionLog is a simple container for many matches.
type SessionLog struct {
	Matches []MatchLog `json:"matches"`
}

// Reset drops all gathered stats.
func (s *SessionLog) Reset() {
	s.Matches = nil
}

// StartMatch begins a new match in the log.
func (s *SessionLog) StartMatch(matchID, mode string, at time.Time) {
	s.Matches = append(s.Matches, MatchLog{
		MatchID:   matchID,
		Mode:      mode,
		StartedAt: at,
	})
}

// AddRound appends a round line to the most recent match, starting one
// implicitly if a round arrives before any match did.
func (s *SessionLog) AddRound(line RoundLine) {
	m := s.Current()
	if m == nil {
		s.StartMatch("", "", time.Time{})
		m = s.Current()
	}
	m.Rounds = append(m.Rounds, line)
	m.LastRound = line.Index
	m.Wins = line.Score
}

// AddSample appends a health timeline point to the most recent match.
func (s *SessionLog) AddSample(sample HealthSample) {
	m := s.Current()
	if m == nil {
		return
	}
	m.Timeline = append(m.Timeline, sample)
}

// Finalize fills the outcome fields of the most recent match.
func (s *SessionLog) Finalize(winner matchtypes.SlotID, wins [2]int, at time.Time) {
	m := s.Current()
	if m == nil {
		return
	}
	m.Winner = winner
	m.Wins = wins
	m.Finished = true
	if !m.StartedAt.IsZero() && at.After(m.StartedAt) {
		m.Duration = at.Sub(m.StartedAt)
	}
}

// Current returns a pointer to the active (most recently started) match.
func (s *SessionLog) Current() *MatchLog {
	if len(s.Matches) == 0 {
		return nil
	}
	return &s.Matches[len(s.Matches)-1]
}

// Abort removes the most recent match if it never saw a round.
func (s *SessionLog) Abort() {
	if len(s.Matches) == 0 {
		return
	}
	if last := &s.Matches[len(s.Matches)-1]; len(last.Rounds) == 0 && !last.Finished {
		s.Matches = s.Matches[:len(s.Matches)-1]
	}
}

// SessionTally is the cross-match summary of a play session.
type SessionTally struct {
	Matches     int     `json:"matches"`
	PlaySeconds float64 `json:"playSeconds"`
	WinsP1      int     `json:"winsP1"`
	LossesP1    int     `json:"lossesP1"`
	BestStreak  int     `json:"bestStreak"`
}

// Tally walks the finished matches and sums the session from player one's
// side, tracking the longest consecutive win streak.
func (s *SessionLog) Tally() SessionTally {
	var t SessionTally
	streak := 0
	for _, m := range s.Matches {
		if !m.Finished {
			continue
		}
		t.Matches++
		t.PlaySeconds += m.Duration.Seconds()
		switch m.Winner {
		case matchtypes.SlotPlayer1:
			t.WinsP1++
			streak++
			if streak > t.BestStreak {
				t.BestStreak = streak
			}
		case matchtypes.SlotPlayer2:
			t.LossesP1++
			streak = 0
		}
	}
	return t
}
