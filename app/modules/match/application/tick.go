package matchservice

import (
	"context"

	matchclock "github.com/duelyard/fightcore/app/modules/match/domain/clock"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	"github.com/duelyard/fightcore/app/shared"
)

// ApplyTick stores the host's raw timer value. Ticks only land while a
// round is playing, so the timer freezes across round_end and game_over by
// construction. Countdown modes clamp at zero; stopwatch and hidden
// encodings are legitimately negative and pass through untouched.
func (s *MatchService) ApplyTick(ctx context.Context, payload matchevents.RoundTimerPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "match.apply_tick", func(ctx context.Context) (shared.OperationResult, error) {
		if s.store.Phase() != matchtypes.PhasePlaying {
			return shared.OperationResult{}, nil
		}
		raw := payload.TimeLeft
		if s.store.Mode().Timer == matchclock.KindCountdown && raw < 0 {
			raw = 0
		}
		s.store.SetTimerRaw(raw)
		return shared.OperationResult{}, nil
	})
}
