package matchservice

import (
	"context"
	"log/slog"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	"github.com/duelyard/fightcore/app/shared"
)

// ApplyGameOver moves the match to its terminal phase. The transition is
// legal only from round_end: a deciding round must resolve before the match
// can end, so a game-over fact arriving mid-round is rejected. Redelivery
// after the match already ended is an idempotent no-op that still honors
// the final score.
func (s *MatchService) ApplyGameOver(ctx context.Context, payload matchevents.GameOverPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "match.apply_game_over", func(ctx context.Context) (shared.OperationResult, error) {
		phase := s.store.Phase()
		switch {
		case phase == matchtypes.PhaseGameOver:
			// Duplicate terminal fact.
		case phase.CanTransition(matchtypes.PhaseGameOver):
			s.store.SetPhase(matchtypes.PhaseGameOver)
			s.metrics.SetPhase(matchtypes.PhaseGameOver.Ordinal())
			s.logger.Info("match over",
				slog.String("winner", string(payload.Winner)),
				slog.String("final_score", payload.FinalScore),
			)
		default:
			s.logger.Warn("game-over fact rejected",
				slog.String("phase", string(phase)),
				slog.String("winner", string(payload.Winner)),
			)
			return shared.OperationResult{Failure: &Rejection{Reason: rejectPhase}}, nil
		}

		if payload.Winner.Valid() {
			s.store.SetMatchWinner(payload.Winner)
		}
		if payload.FinalScore != "" {
			score, err := matchtypes.ParseScore(payload.FinalScore)
			if err != nil {
				s.logger.Error("malformed final score, keeping last known good",
					slog.String("score", payload.FinalScore),
					slog.Any("error", err),
				)
				return shared.OperationResult{Failure: &Rejection{Reason: rejectMalformedScore, Raw: payload.FinalScore}}, nil
			}
			s.store.OverwriteScore(score)
			s.syncScoreGauges()
		}
		return shared.OperationResult{}, nil
	})
}
