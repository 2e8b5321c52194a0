package matchservice

import (
	"context"
	"log/slog"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	matchstate "github.com/duelyard/fightcore/app/modules/match/infrastructure/state"
	"github.com/duelyard/fightcore/app/shared"
)

// ApplyDamage merges a damage fact into the target fighter. The host's
// currentHealth is authoritative when present; otherwise the new health is
// derived from the damage amount. Unknown slots are an absorbed no-op: late
// damage racing scene teardown is routine, not an error.
func (s *MatchService) ApplyDamage(ctx context.Context, payload matchevents.FighterDamagedPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "match.apply_damage", func(ctx context.Context) (shared.OperationResult, error) {
		patch := matchstate.PlayerPatch{MaxHealth: payload.MaxHealth}
		if payload.CurrentHealth != nil {
			patch.Health = payload.CurrentHealth
		} else if current, ok := s.store.Player(payload.FighterID); ok {
			derived := current.Health - payload.Damage
			patch.Health = &derived
		}
		if payload.Damage > 0 {
			hurt := matchtypes.FighterHurt
			patch.State = &hurt
		}

		res := s.store.UpdatePlayer(payload.FighterID, patch)
		if res.Status == matchstate.UpdateIgnoredUnknownSlot {
			s.logger.Warn("ignoring damage for unknown slot",
				slog.String("slot", string(payload.FighterID)),
			)
			return shared.OperationResult{Failure: &Rejection{Reason: rejectUnknownSlot, Slot: payload.FighterID}}, nil
		}
		if !res.HealthChanged {
			return shared.OperationResult{}, nil
		}

		s.metrics.SetPlayerHealth(string(res.Player.Slot), res.Player.Health)
		fact := healthFact(res.Player)
		return shared.OperationResult{Success: &fact}, nil
	})
}
