package matchhandlers

import (
	"context"
	"fmt"
	"log/slog"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

// HandleGameStarted wipes the previous match's score and seeds a fresh roster.
// The reset runs first so the start itself never has to touch the tally.
func (h *MatchHandlers) HandleGameStarted(ctx context.Context, payload *matchevents.GameStartedPayload) ([]shared.Result, error) {
	h.logger.InfoContext(ctx, "game-started fact received",
		slog.String("mode", payload.Mode),
		slog.Int("seeds", len(payload.Players)),
	)

	if _, err := h.service.ResetMatch(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset match: %w", err)
	}

	result, err := h.service.StartGame(ctx, *payload)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return healthResults(result.Success), nil
}

// HandleRoundEnded applies the authoritative round outcome. Rejections are
// logged by the service; the fact is consumed either way.
func (h *MatchHandlers) HandleRoundEnded(ctx context.Context, payload *matchevents.RoundEndedPayload) ([]shared.Result, error) {
	if _, err := h.service.ApplyRoundEnded(ctx, *payload); err != nil {
		return nil, fmt.Errorf("failed to apply round-ended: %w", err)
	}
	return nil, nil
}

// HandleGameOver finishes the match.
func (h *MatchHandlers) HandleGameOver(ctx context.Context, payload *matchevents.GameOverPayload) ([]shared.Result, error) {
	if _, err := h.service.ApplyGameOver(ctx, *payload); err != nil {
		return nil, fmt.Errorf("failed to apply game-over: %w", err)
	}
	return nil, nil
}

// HandleSceneReady starts the next round once the fight scene reports in.
// Healed bars go back out as health facts.
func (h *MatchHandlers) HandleSceneReady(ctx context.Context, payload *matchevents.SceneReadyPayload) ([]shared.Result, error) {
	result, err := h.service.HandleSceneReady(ctx, *payload)
	if err != nil {
		return nil, fmt.Errorf("failed to handle scene-ready: %w", err)
	}
	return healthResults(result.Success), nil
}

// HandleExitToMenu discards the in-flight round when the player bails out.
func (h *MatchHandlers) HandleExitToMenu(ctx context.Context, payload *pauseevents.GameExitToMenuPayload) ([]shared.Result, error) {
	if _, err := h.service.HandleExitToMenu(ctx, *payload); err != nil {
		return nil, fmt.Errorf("failed to handle exit-to-menu: %w", err)
	}
	return nil, nil
}
