package matchservice

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	"github.com/duelyard/fightcore/app/shared"
)

// ResetMatch zeroes the match score for both slots. Player health and
// alive-state are untouched; a fresh roster comes from StartGame, which is
// deliberately kept orthogonal so round transitions can never reach this.
func (s *MatchService) ResetMatch(ctx context.Context) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "match.reset", func(ctx context.Context) (shared.OperationResult, error) {
		s.store.ResetMatch()
		s.syncScoreGauges()
		s.logger.Info("match score reset")
		return shared.OperationResult{}, nil
	})
}

// StartGame begins a fresh match: new identity, a cleared roster reseeded
// with exactly two full-health fighters, the mode's starting timer, and
// phase playing. Callable repeatedly; each call discards prior match state.
// It does not reset the score; the game-started handler issues that reset
// explicitly beforehand.
func (s *MatchService) StartGame(ctx context.Context, payload matchevents.GameStartedPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "match.start_game", func(ctx context.Context) (shared.OperationResult, error) {
		mode, ok := s.modes[matchtypes.ModeName(payload.Mode)]
		if !ok {
			s.logger.Warn("unknown mode requested, using default",
				slog.String("mode", payload.Mode),
				slog.String("default", string(s.defaultMode)),
			)
			mode = s.modes[s.defaultMode]
		}

		localSlot := payload.LocalPlayer
		if !localSlot.Valid() {
			localSlot = matchtypes.SlotPlayer1
		}

		matchID := uuid.NewString()
		s.store.BeginMatch(matchID, mode, localSlot)

		facts := s.seedRoster(payload.Players)
		s.store.SetTimerRaw(s.initialTimer(mode))
		s.store.SetPhase(matchtypes.PhasePlaying)

		s.metrics.MatchStarted(string(mode.Name))
		s.metrics.SetPhase(matchtypes.PhasePlaying.Ordinal())
		for _, fact := range facts {
			s.metrics.SetPlayerHealth(string(fact.PlayerID), fact.Health)
		}
		s.syncScoreGauges()

		s.logger.Info("match started",
			slog.String("match_id", matchID),
			slog.String("mode", string(mode.Name)),
			slog.Int("max_rounds", mode.MaxRounds),
		)
		return shared.OperationResult{Success: facts}, nil
	})
}

// seedRoster fills both combatant slots from the requested seeds, falling
// back to stock fighters so a match can always field two players. Returns
// the initial health facts.
func (s *MatchService) seedRoster(seeds []matchevents.FighterSeed) []matchevents.PlayerHealthChangedPayload {
	slots := matchtypes.Slots()
	bySlot := make(map[matchtypes.SlotID]matchevents.FighterSeed, len(seeds))
	for i, seed := range seeds {
		slot := seed.ID
		if !slot.Valid() {
			if i >= len(slots) {
				s.logger.Warn("ignoring extra fighter seed", slog.String("name", seed.Name))
				continue
			}
			slot = slots[i]
		}
		bySlot[slot] = seed
	}

	fallbacks := s.roster.Names()
	facts := make([]matchevents.PlayerHealthChangedPayload, 0, len(slots))
	for i, slot := range slots {
		seed, ok := bySlot[slot]
		if !ok || seed.Name == "" {
			seed.Name = fallbacks[i%len(fallbacks)]
		}
		player := s.roster.Seed(slot, seed.Name)
		s.store.AddPlayer(player)
		facts = append(facts, healthFact(player))
	}
	return facts
}
