package matchhandlers

import (
	"context"
	"log/slog"

	matchservice "github.com/duelyard/fightcore/app/modules/match/application"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

// Handlers is the contract the match router wires fact topics to.
type Handlers interface {
	HandleGameStarted(ctx context.Context, payload *matchevents.GameStartedPayload) ([]shared.Result, error)
	HandleRoundTimer(ctx context.Context, payload *matchevents.RoundTimerPayload) ([]shared.Result, error)
	HandleFighterDamaged(ctx context.Context, payload *matchevents.FighterDamagedPayload) ([]shared.Result, error)
	HandleFighterDefeated(ctx context.Context, payload *matchevents.FighterDefeatedPayload) ([]shared.Result, error)
	HandleRoundEnded(ctx context.Context, payload *matchevents.RoundEndedPayload) ([]shared.Result, error)
	HandleGameOver(ctx context.Context, payload *matchevents.GameOverPayload) ([]shared.Result, error)
	HandleSceneReady(ctx context.Context, payload *matchevents.SceneReadyPayload) ([]shared.Result, error)
	HandleExitToMenu(ctx context.Context, payload *pauseevents.GameExitToMenuPayload) ([]shared.Result, error)
}

// MatchHandlers translates bus facts into match service calls.
type MatchHandlers struct {
	service matchservice.Service
	logger  *slog.Logger
}

// NewMatchHandlers creates a new MatchHandlers.
func NewMatchHandlers(service matchservice.Service, logger *slog.Logger) Handlers {
	return &MatchHandlers{
		service: service,
		logger:  logger,
	}
}

// healthResults converts an operation's success payload into outbound
// player-health-changed facts for the display side.
func healthResults(success any) []shared.Result {
	switch fact := success.(type) {
	case *matchevents.PlayerHealthChangedPayload:
		if fact == nil {
			return nil
		}
		return []shared.Result{{Topic: matchevents.PlayerHealthChanged, Payload: fact}}
	case []matchevents.PlayerHealthChangedPayload:
		results := make([]shared.Result, 0, len(fact))
		for i := range fact {
			results = append(results, shared.Result{Topic: matchevents.PlayerHealthChanged, Payload: fact[i]})
		}
		return results
	default:
		return nil
	}
}
