package matchservice

import (
	"context"
	"log/slog"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

// HandleSceneReady reacts to a scene finishing its load. A fight scene
// becoming ready while the match sits in round_end starts the next round,
// but only while the match is undecided; once a slot reaches the win
// target the engine holds in round_end until the host declares game over.
func (s *MatchService) HandleSceneReady(ctx context.Context, payload matchevents.SceneReadyPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "match.scene_ready", func(ctx context.Context) (shared.OperationResult, error) {
		if payload.SceneName != matchevents.SceneFight {
			return shared.OperationResult{}, nil
		}
		if s.store.Phase() != matchtypes.PhaseRoundEnd {
			return shared.OperationResult{}, nil
		}
		mode := s.store.Mode()
		if mode.Decided(s.store.Score()) {
			s.logger.Debug("match decided, holding for game-over",
				slog.String("score", matchtypes.FormatScore(s.store.Score())),
			)
			return shared.OperationResult{}, nil
		}

		round := s.store.NextRound()
		s.store.HealAll()
		s.store.SetTimerRaw(s.initialTimer(mode))
		s.store.SetPhase(matchtypes.PhasePlaying)
		s.metrics.SetPhase(matchtypes.PhasePlaying.Ordinal())

		facts := make([]matchevents.PlayerHealthChangedPayload, 0, 2)
		for _, slot := range matchtypes.Slots() {
			if p, ok := s.store.Player(slot); ok {
				s.metrics.SetPlayerHealth(string(slot), p.Health)
				facts = append(facts, healthFact(p))
			}
		}

		s.logger.Info("next round started", slog.Int("round", round))
		return shared.OperationResult{Success: facts}, nil
	})
}

// HandleExitToMenu discards in-flight round state after a paused match is
// abandoned: phase returns to idle, round winners clear, but the score and
// roster survive until the next game start.
func (s *MatchService) HandleExitToMenu(ctx context.Context, payload pauseevents.GameExitToMenuPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "match.exit_to_menu", func(ctx context.Context) (shared.OperationResult, error) {
		s.store.ClearRoundState()
		s.metrics.SetPhase(matchtypes.PhaseIdle.Ordinal())
		s.logger.Info("round state discarded for menu",
			slog.String("from_mode", payload.FromMode),
			slog.String("from_context", payload.FromContext),
		)
		return shared.OperationResult{}, nil
	})
}
