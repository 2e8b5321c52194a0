package matchhandlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

func newTestHandlers(fake *FakeMatchService) Handlers {
	return NewMatchHandlers(fake, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleGameStartedResetsBeforeStarting(t *testing.T) {
	fake := NewFakeMatchService()
	fake.StartGameFunc = func(ctx context.Context, payload matchevents.GameStartedPayload) (shared.OperationResult, error) {
		return shared.OperationResult{Success: []matchevents.PlayerHealthChangedPayload{
			{PlayerID: matchtypes.SlotPlayer1, Health: 1000, MaxHealth: 1000},
			{PlayerID: matchtypes.SlotPlayer2, Health: 1000, MaxHealth: 1000},
		}}, nil
	}
	h := newTestHandlers(fake)

	results, err := h.HandleGameStarted(context.Background(), &matchevents.GameStartedPayload{Mode: "normal"})
	require.NoError(t, err)
	require.Equal(t, []string{"ResetMatch", "StartGame"}, fake.Trace())
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, matchevents.PlayerHealthChanged, r.Topic)
	}
}

func TestHandleGameStartedResetFailureShortCircuits(t *testing.T) {
	fake := NewFakeMatchService()
	fake.ResetMatchFunc = func(ctx context.Context) (shared.OperationResult, error) {
		return shared.OperationResult{}, errors.New("store offline")
	}
	h := newTestHandlers(fake)

	_, err := h.HandleGameStarted(context.Background(), &matchevents.GameStartedPayload{Mode: "normal"})
	require.Error(t, err)
	require.Equal(t, []string{"ResetMatch"}, fake.Trace())
}

func TestHandleFighterDamagedPublishesHealthFact(t *testing.T) {
	fact := &matchevents.PlayerHealthChangedPayload{
		PlayerID:  matchtypes.SlotPlayer2,
		Health:    480,
		MaxHealth: 1000,
	}
	fake := NewFakeMatchService()
	fake.ApplyDamageFunc = func(ctx context.Context, payload matchevents.FighterDamagedPayload) (shared.OperationResult, error) {
		return shared.OperationResult{Success: fact}, nil
	}
	h := newTestHandlers(fake)

	results, err := h.HandleFighterDamaged(context.Background(), &matchevents.FighterDamagedPayload{
		FighterID: matchtypes.SlotPlayer2,
		Damage:    520,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, matchevents.PlayerHealthChanged, results[0].Topic)
	require.Equal(t, fact, results[0].Payload)
}

func TestHandleFighterDamagedRejectionIsQuiet(t *testing.T) {
	fake := NewFakeMatchService()
	fake.ApplyDamageFunc = func(ctx context.Context, payload matchevents.FighterDamagedPayload) (shared.OperationResult, error) {
		return shared.OperationResult{Failure: "unknown_slot"}, nil
	}
	h := newTestHandlers(fake)

	results, err := h.HandleFighterDamaged(context.Background(), &matchevents.FighterDamagedPayload{FighterID: "player9"})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestHandleFighterDefeatedPublishesZeroedBar(t *testing.T) {
	fake := NewFakeMatchService()
	fake.ResolveDefeatFunc = func(ctx context.Context, payload matchevents.FighterDefeatedPayload) (shared.OperationResult, error) {
		return shared.OperationResult{Success: &matchevents.PlayerHealthChangedPayload{
			PlayerID:  payload.FighterID,
			Health:    0,
			MaxHealth: 1000,
		}}, nil
	}
	h := newTestHandlers(fake)

	results, err := h.HandleFighterDefeated(context.Background(), &matchevents.FighterDefeatedPayload{FighterID: matchtypes.SlotPlayer1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	payload, ok := results[0].Payload.(*matchevents.PlayerHealthChangedPayload)
	require.True(t, ok)
	require.Equal(t, float64(0), payload.Health)
}

func TestHandleRoundTimerDelegates(t *testing.T) {
	var seen float64
	fake := NewFakeMatchService()
	fake.ApplyTickFunc = func(ctx context.Context, payload matchevents.RoundTimerPayload) (shared.OperationResult, error) {
		seen = payload.TimeLeft
		return shared.OperationResult{}, nil
	}
	h := newTestHandlers(fake)

	results, err := h.HandleRoundTimer(context.Background(), &matchevents.RoundTimerPayload{TimeLeft: 87.25})
	require.NoError(t, err)
	require.Empty(t, results)
	require.InDelta(t, 87.25, seen, 0.0001)
}

func TestHandleSceneReadyPublishesHealedBars(t *testing.T) {
	fake := NewFakeMatchService()
	fake.HandleSceneReadyFunc = func(ctx context.Context, payload matchevents.SceneReadyPayload) (shared.OperationResult, error) {
		return shared.OperationResult{Success: []matchevents.PlayerHealthChangedPayload{
			{PlayerID: matchtypes.SlotPlayer1, Health: 1000, MaxHealth: 1000},
			{PlayerID: matchtypes.SlotPlayer2, Health: 1000, MaxHealth: 1000},
		}}, nil
	}
	h := newTestHandlers(fake)

	results, err := h.HandleSceneReady(context.Background(), &matchevents.SceneReadyPayload{SceneName: matchevents.SceneFight})
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestHandleRoundEndedAndGameOverDelegate(t *testing.T) {
	fake := NewFakeMatchService()
	h := newTestHandlers(fake)

	_, err := h.HandleRoundEnded(context.Background(), &matchevents.RoundEndedPayload{Round: 1, Score: "1-0"})
	require.NoError(t, err)
	_, err = h.HandleGameOver(context.Background(), &matchevents.GameOverPayload{Winner: matchtypes.SlotPlayer1})
	require.NoError(t, err)
	_, err = h.HandleExitToMenu(context.Background(), &pauseevents.GameExitToMenuPayload{FromMode: "normal"})
	require.NoError(t, err)

	require.Equal(t, []string{"ApplyRoundEnded", "ApplyGameOver", "HandleExitToMenu"}, fake.Trace())
}

func TestHandlerServiceErrorsPropagate(t *testing.T) {
	fake := NewFakeMatchService()
	fake.ApplyGameOverFunc = func(ctx context.Context, payload matchevents.GameOverPayload) (shared.OperationResult, error) {
		return shared.OperationResult{}, errors.New("boom")
	}
	h := newTestHandlers(fake)

	_, err := h.HandleGameOver(context.Background(), &matchevents.GameOverPayload{})
	require.ErrorContains(t, err, "boom")
}
