package pauseservice

import (
	"context"
	"fmt"
	"log/slog"

	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

// Pause suspends the named gameplay context. Pausing while already paused is
// a no-op: no second suspension, no second fact.
func (s *PauseService) Pause(ctx context.Context, mode string, contextName string) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "pause.pause", func(ctx context.Context) (shared.OperationResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.paused {
			s.logger.DebugContext(ctx, "already paused, ignoring",
				slog.String("held_context", s.contextName),
			)
			return shared.OperationResult{}, nil
		}

		s.suspender.Suspend(contextName)
		s.paused = true
		s.mode = mode
		s.contextName = contextName

		payload := pauseevents.GamePausedPayload{Mode: mode, ContextName: contextName}
		if err := shared.PublishJSON(s.publisher, pauseevents.GamePaused, payload); err != nil {
			return shared.OperationResult{}, fmt.Errorf("failed to publish game-paused: %w", err)
		}

		s.metrics.PauseTransition()
		s.logger.InfoContext(ctx, "gameplay paused",
			slog.String("mode", mode),
			slog.String("context", contextName),
		)
		return shared.OperationResult{Success: payload}, nil
	})
}

// Resume releases the suspended context. Resuming while running is a no-op.
func (s *PauseService) Resume(ctx context.Context) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "pause.resume", func(ctx context.Context) (shared.OperationResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.paused {
			s.logger.DebugContext(ctx, "not paused, ignoring resume")
			return shared.OperationResult{}, nil
		}

		s.suspender.Resume(s.contextName)
		payload := pauseevents.GameResumedPayload{Mode: s.mode, ContextName: s.contextName}
		s.clearLocked()

		if err := shared.PublishJSON(s.publisher, pauseevents.GameResumed, payload); err != nil {
			return shared.OperationResult{}, fmt.Errorf("failed to publish game-resumed: %w", err)
		}

		s.metrics.PauseTransition()
		s.logger.InfoContext(ctx, "gameplay resumed",
			slog.String("mode", payload.Mode),
			slog.String("context", payload.ContextName),
		)
		return shared.OperationResult{Success: payload}, nil
	})
}

// ReturnToMenu abandons the suspended context instead of resuming it: the
// context is stopped, the menu context starts, and the exit fact goes out so
// the match module can discard its round state. Only reachable from pause.
func (s *PauseService) ReturnToMenu(ctx context.Context) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "pause.return_to_menu", func(ctx context.Context) (shared.OperationResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.paused {
			s.logger.DebugContext(ctx, "not paused, ignoring return to menu")
			return shared.OperationResult{}, nil
		}

		s.suspender.Stop(s.contextName)
		s.suspender.Start(MenuContext)
		payload := pauseevents.GameExitToMenuPayload{FromMode: s.mode, FromContext: s.contextName}
		s.clearLocked()

		if err := shared.PublishJSON(s.publisher, pauseevents.GameExitToMenu, payload); err != nil {
			return shared.OperationResult{}, fmt.Errorf("failed to publish game-exit-to-menu: %w", err)
		}

		s.metrics.PauseTransition()
		s.logger.InfoContext(ctx, "gameplay abandoned for menu",
			slog.String("from_mode", payload.FromMode),
			slog.String("from_context", payload.FromContext),
		)
		return shared.OperationResult{Success: payload}, nil
	})
}

func (s *PauseService) clearLocked() {
	s.paused = false
	s.mode = ""
	s.contextName = ""
}
