// Package matchevents defines the fact topics and payload shapes the match
// module exchanges with the host rendering layer and presentation observers.
package matchevents

import (
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
)

// Facts consumed from the host rendering layer.
const (
	GameStarted     = "game-started"
	RoundTimer      = "round-timer"
	FighterDamaged  = "fighter-damaged"
	FighterDefeated = "fighter-defeated"
	RoundEnded      = "round-ended"
	GameOver        = "game-over"
	SceneReady      = "scene-ready"
)

// Facts emitted toward presentation observers.
const (
	PlayerHealthChanged = "player-health-changed"

	// CountdownUpdate flows from the rendering layer straight to
	// presentation; the engine relays it without interpretation.
	CountdownUpdate = "countdown-update"
)

// Scene names carried by scene-ready facts.
const (
	SceneFight = "fight"
	SceneMenu  = "menu"
)

// FighterSeed describes one combatant in a game-started fact.
type FighterSeed struct {
	ID   matchtypes.SlotID `json:"id"`
	Name string            `json:"name"`
}

// GameStartedPayload announces a fresh match. LocalPlayer defaults to the
// first slot when empty.
type GameStartedPayload struct {
	Mode        string            `json:"mode"`
	Players     []FighterSeed     `json:"players"`
	LocalPlayer matchtypes.SlotID `json:"localPlayer,omitempty"`
}

// RoundTimerPayload carries one raw timer channel value per tick.
type RoundTimerPayload struct {
	TimeLeft float64 `json:"timeLeft"`
}

// FighterDamagedPayload reports damage landed by the host physics. The
// health fields are authoritative when present; when the host omits them the
// engine derives the new health from the damage amount.
type FighterDamagedPayload struct {
	FighterID     matchtypes.SlotID `json:"fighterId"`
	Damage        float64           `json:"damage"`
	CurrentHealth *float64          `json:"currentHealth,omitempty"`
	MaxHealth     *float64          `json:"maxHealth,omitempty"`
}

// FighterDefeatedPayload reports a fighter reduced to zero health.
type FighterDefeatedPayload struct {
	FighterID matchtypes.SlotID `json:"fighterId"`
}

// RoundEndedPayload is the host's round resolution. Score, when present, is
// the authoritative "W-L" string and overwrites the local tally.
type RoundEndedPayload struct {
	Round  int               `json:"round"`
	Winner matchtypes.SlotID `json:"winner"`
	Score  string            `json:"score,omitempty"`
}

// GameOverPayload ends the match.
type GameOverPayload struct {
	Winner     matchtypes.SlotID `json:"winner"`
	FinalScore string            `json:"finalScore,omitempty"`
}

// SceneReadyPayload announces that a scene finished loading. A fight scene
// becoming ready while a match sits in round_end begins the next round.
type SceneReadyPayload struct {
	SceneName string `json:"sceneName"`
}

// PlayerHealthChangedPayload is the engine's derived health fact, emitted
// whenever a stored health value changes.
type PlayerHealthChangedPayload struct {
	PlayerID  matchtypes.SlotID `json:"playerId"`
	Health    float64           `json:"health"`
	MaxHealth float64           `json:"maxHealth"`
}

// CountdownUpdatePayload carries the pre-round countdown beats.
type CountdownUpdatePayload struct {
	Value          string `json:"value"`
	IsCountingDown bool   `json:"isCountingDown"`
}
