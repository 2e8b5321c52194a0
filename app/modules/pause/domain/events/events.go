// Package pauseevents defines the pause controller's fact topics and
// payloads.
package pauseevents

// Facts emitted toward presentation observers.
const (
	GamePaused     = "game-paused"
	GameResumed    = "game-resumed"
	GameExitToMenu = "game-exit-to-menu"
)

// GamePausedPayload reports a pause taking effect.
type GamePausedPayload struct {
	Mode        string `json:"mode"`
	ContextName string `json:"contextName"`
}

// GameResumedPayload reports the suspended context resuming.
type GameResumedPayload struct {
	Mode        string `json:"mode"`
	ContextName string `json:"contextName"`
}

// GameExitToMenuPayload reports a paused match being abandoned for the menu.
type GameExitToMenuPayload struct {
	FromMode    string `json:"fromMode"`
	FromContext string `json:"fromContext"`
}
