package pauseservice

import (
	"context"

	"github.com/duelyard/fightcore/app/shared"
)

// State is the pause controller's public view of itself.
type State struct {
	Paused      bool   `json:"paused"`
	Mode        string `json:"mode,omitempty"`
	ContextName string `json:"context,omitempty"`
}

// Suspender freezes and releases named gameplay loop contexts. Implemented by
// the frame loop runner.
type Suspender interface {
	Suspend(name string) bool
	Resume(name string) bool
	Stop(name string) bool
	Start(name string) bool
}

// Service is the pause module's application interface.
type Service interface {
	Pause(ctx context.Context, mode string, contextName string) (shared.OperationResult, error)
	Resume(ctx context.Context) (shared.OperationResult, error)
	ReturnToMenu(ctx context.Context) (shared.OperationResult, error)
	State() State
}
