package matchhandlers

import (
	"context"
	"fmt"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

// HandleRoundTimer stores the latest clock value. Ticks arrive every frame,
// so this path stays log-free.
func (h *MatchHandlers) HandleRoundTimer(ctx context.Context, payload *matchevents.RoundTimerPayload) ([]shared.Result, error) {
	if _, err := h.service.ApplyTick(ctx, *payload); err != nil {
		return nil, fmt.Errorf("failed to apply timer tick: %w", err)
	}
	return nil, nil
}

// HandleFighterDamaged updates the struck fighter's bar and republishes it.
func (h *MatchHandlers) HandleFighterDamaged(ctx context.Context, payload *matchevents.FighterDamagedPayload) ([]shared.Result, error) {
	result, err := h.service.ApplyDamage(ctx, *payload)
	if err != nil {
		return nil, fmt.Errorf("failed to apply damage: %w", err)
	}
	return healthResults(result.Success), nil
}

// HandleFighterDefeated zeroes the loser and awards the round to the survivor.
func (h *MatchHandlers) HandleFighterDefeated(ctx context.Context, payload *matchevents.FighterDefeatedPayload) ([]shared.Result, error) {
	result, err := h.service.ResolveDefeat(ctx, *payload)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve defeat: %w", err)
	}
	return healthResults(result.Success), nil
}
