package matchservice

import (
	"context"
	"log/slog"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	matchstate "github.com/duelyard/fightcore/app/modules/match/infrastructure/state"
	"github.com/duelyard/fightcore/app/shared"
)

// ResolveDefeat handles a fighter-defeated fact: the defeated fighter's
// health is zeroed explicitly as a defense against float residue, the
// surviving slot takes the round, and the match moves to round_end. A
// second defeat in the same round is an idempotent no-op.
func (s *MatchService) ResolveDefeat(ctx context.Context, payload matchevents.FighterDefeatedPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "match.resolve_defeat", func(ctx context.Context) (shared.OperationResult, error) {
		zero := 0.0
		defeated := matchtypes.FighterDefeated
		res := s.store.UpdatePlayer(payload.FighterID, matchstate.PlayerPatch{
			Health: &zero,
			State:  &defeated,
		})
		if res.Status == matchstate.UpdateIgnoredUnknownSlot {
			s.logger.Warn("ignoring defeat for unknown slot",
				slog.String("slot", string(payload.FighterID)),
			)
			return shared.OperationResult{Failure: &Rejection{Reason: rejectUnknownSlot, Slot: payload.FighterID}}, nil
		}
		if res.HealthChanged {
			s.metrics.SetPlayerHealth(string(res.Player.Slot), 0)
		}

		winner := payload.FighterID.Opponent()
		if s.store.Phase() == matchtypes.PhasePlaying && s.store.TryResolveRound(s.store.Round()) {
			s.store.AddWin(winner)
			s.store.SetRoundWinner(winner)
			s.store.SetPhase(matchtypes.PhaseRoundEnd)
			s.metrics.SetPhase(matchtypes.PhaseRoundEnd.Ordinal())
			s.metrics.RoundResolved()
			s.syncScoreGauges()
			s.logger.Info("round resolved by defeat",
				slog.Int("round", s.store.Round()),
				slog.String("winner", string(winner)),
				slog.String("defeated", string(payload.FighterID)),
			)
		} else {
			s.logger.Debug("duplicate or out-of-phase defeat ignored",
				slog.String("slot", string(payload.FighterID)),
				slog.String("phase", string(s.store.Phase())),
			)
		}

		if !res.HealthChanged {
			return shared.OperationResult{}, nil
		}
		fact := healthFact(res.Player)
		return shared.OperationResult{Success: &fact}, nil
	})
}
