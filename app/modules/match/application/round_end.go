package matchservice

import (
	"context"
	"log/slog"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	"github.com/duelyard/fightcore/app/shared"
)

// ApplyRoundEnded applies the host's authoritative round resolution. When
// the payload carries a score string the match score is overwritten with
// those exact values, never incremented, so redelivery and host-side
// aggregation cannot double-count. A malformed score string is logged and
// the last known good score retained. Without a score string the declared
// winner is credited locally, at most once per round.
func (s *MatchService) ApplyRoundEnded(ctx context.Context, payload matchevents.RoundEndedPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "match.apply_round_ended", func(ctx context.Context) (shared.OperationResult, error) {
		phase := s.store.Phase()
		if phase == matchtypes.PhaseIdle {
			s.logger.Warn("round-ended fact with no match running",
				slog.Int("round", payload.Round),
			)
			return shared.OperationResult{Failure: &Rejection{Reason: rejectPhase}}, nil
		}

		if phase == matchtypes.PhasePlaying {
			s.store.SetPhase(matchtypes.PhaseRoundEnd)
			s.metrics.SetPhase(matchtypes.PhaseRoundEnd.Ordinal())
		}
		if payload.Winner.Valid() {
			s.store.SetRoundWinner(payload.Winner)
		}

		resolvedNow := phase == matchtypes.PhasePlaying && s.store.TryResolveRound(s.store.Round())

		if payload.Score != "" {
			score, err := matchtypes.ParseScore(payload.Score)
			if err != nil {
				s.logger.Error("malformed authoritative score, keeping last known good",
					slog.String("score", payload.Score),
					slog.Any("error", err),
				)
				return shared.OperationResult{Failure: &Rejection{Reason: rejectMalformedScore, Raw: payload.Score}}, nil
			}
			s.store.OverwriteScore(score)
			s.syncScoreGauges()
		} else if resolvedNow && payload.Winner.Valid() {
			s.store.AddWin(payload.Winner)
			s.syncScoreGauges()
		}

		if resolvedNow {
			s.metrics.RoundResolved()
			s.logger.Info("round ended",
				slog.Int("round", payload.Round),
				slog.String("winner", string(payload.Winner)),
				slog.String("score", matchtypes.FormatScore(s.store.Score())),
			)
		}
		return shared.OperationResult{}, nil
	})
}
