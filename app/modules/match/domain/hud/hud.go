// Package matchhud derives presentation view models from state snapshots.
// Everything here is pure: observers recompute views from the current
// snapshot instead of caching derived values, because the score they derive
// from mutates independently.
package matchhud

import (
	"fmt"

	matchclock "github.com/duelyard/fightcore/app/modules/match/domain/clock"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
)

// IndicatorKind selects how round standing is rendered.
type IndicatorKind string

const (
	IndicatorDots IndicatorKind = "dots"
	IndicatorText IndicatorKind = "text"
)

// Indicator is the round-standing readout. Dots mode carries one mark per
// win slot for each player; text mode carries a single line, empty until
// there is something to say.
type Indicator struct {
	Kind    IndicatorKind `json:"kind"`
	Player1 []bool        `json:"player1,omitempty"`
	Player2 []bool        `json:"player2,omitempty"`
	Text    string        `json:"text,omitempty"`
}

// BuildIndicator derives the round indicator from a snapshot. Modes with a
// fixed win target render exactly MaxRounds marks per player; targetless
// modes fall back to a text readout whose wording depends on the
// time-attack heuristic.
func BuildIndicator(snap matchtypes.Snapshot) Indicator {
	maxRounds := snap.Mode.MaxRounds
	if maxRounds > 0 {
		return Indicator{
			Kind:    IndicatorDots,
			Player1: marks(snap.Score[matchtypes.SlotPlayer1], maxRounds),
			Player2: marks(snap.Score[matchtypes.SlotPlayer2], maxRounds),
		}
	}
	if snap.IsTimeAttack() {
		return Indicator{Kind: IndicatorText, Text: fmt.Sprintf("Defeated: %d", snap.Score[matchtypes.SlotPlayer2])}
	}
	if survived := snap.Score[matchtypes.SlotPlayer1]; survived > 0 {
		return Indicator{Kind: IndicatorText, Text: fmt.Sprintf("Rounds Completed: %d", survived)}
	}
	return Indicator{Kind: IndicatorText}
}

func marks(wins, maxRounds int) []bool {
	m := make([]bool, maxRounds)
	for i := 0; i < maxRounds && i < wins; i++ {
		m[i] = true
	}
	return m
}

// PlayerBar is one health bar.
type PlayerBar struct {
	Slot      matchtypes.SlotID `json:"slot"`
	Name      string            `json:"name"`
	Health    float64           `json:"health"`
	MaxHealth float64           `json:"maxHealth"`
	Fraction  float64           `json:"fraction"`
	Alive     bool              `json:"alive"`
	Local     bool              `json:"local"`
}

// View is the full HUD view model served to presentation observers.
type View struct {
	Phase     matchtypes.Phase    `json:"phase"`
	Round     int                 `json:"round"`
	Mode      matchtypes.ModeName `json:"mode"`
	Timer     matchclock.Reading  `json:"timer"`
	TimerText string              `json:"timerText"`
	Indicator Indicator           `json:"indicator"`
	Players   []PlayerBar         `json:"players"`
	Score     string              `json:"score"`
}

// BuildView assembles the complete HUD view model from a snapshot.
func BuildView(snap matchtypes.Snapshot) View {
	reading := matchclock.Decode(snap.TimerRaw)
	view := View{
		Phase:     snap.Phase,
		Round:     snap.Round,
		Mode:      snap.Mode.Name,
		Timer:     reading,
		TimerText: reading.Display(),
		Indicator: BuildIndicator(snap),
		Score:     matchtypes.FormatScore(snap.Score),
	}
	for _, slot := range matchtypes.Slots() {
		p, ok := snap.Player(slot)
		if !ok {
			continue
		}
		fraction := 0.0
		if p.MaxHealth > 0 {
			fraction = p.Health / p.MaxHealth
		}
		view.Players = append(view.Players, PlayerBar{
			Slot:      slot,
			Name:      p.Name,
			Health:    p.Health,
			MaxHealth: p.MaxHealth,
			Fraction:  fraction,
			Alive:     p.Alive,
			Local:     slot == snap.LocalSlot,
		})
	}
	return view
}
