package statshandlers

import (
	"context"
	"fmt"
	"log/slog"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	statsservice "github.com/duelyard/fightcore/app/modules/stats/application"
	"github.com/duelyard/fightcore/app/shared"
)

// Handlers is the contract the stats router wires fact topics to. The stats
// module only listens; no handler produces outbound facts.
type Handlers interface {
	HandleGameStarted(ctx context.Context, payload *matchevents.GameStartedPayload) ([]shared.Result, error)
	HandlePlayerHealthChanged(ctx context.Context, payload *matchevents.PlayerHealthChangedPayload) ([]shared.Result, error)
	HandleRoundEnded(ctx context.Context, payload *matchevents.RoundEndedPayload) ([]shared.Result, error)
	HandleGameOver(ctx context.Context, payload *matchevents.GameOverPayload) ([]shared.Result, error)
}

// StatsHandlers feeds the fact stream into the stats service.
type StatsHandlers struct {
	service statsservice.Service
	logger  *slog.Logger
}

// NewStatsHandlers creates a new StatsHandlers.
func NewStatsHandlers(service statsservice.Service, logger *slog.Logger) Handlers {
	return &StatsHandlers{
		service: service,
		logger:  logger,
	}
}

func (h *StatsHandlers) HandleGameStarted(ctx context.Context, payload *matchevents.GameStartedPayload) ([]shared.Result, error) {
	if _, err := h.service.ObserveMatchStart(ctx, *payload); err != nil {
		return nil, fmt.Errorf("failed to observe match start: %w", err)
	}
	return nil, nil
}

func (h *StatsHandlers) HandlePlayerHealthChanged(ctx context.Context, payload *matchevents.PlayerHealthChangedPayload) ([]shared.Result, error) {
	if _, err := h.service.ObserveHealth(ctx, *payload); err != nil {
		return nil, fmt.Errorf("failed to observe health change: %w", err)
	}
	return nil, nil
}

func (h *StatsHandlers) HandleRoundEnded(ctx context.Context, payload *matchevents.RoundEndedPayload) ([]shared.Result, error) {
	if _, err := h.service.ObserveRoundEnded(ctx, *payload); err != nil {
		return nil, fmt.Errorf("failed to observe round end: %w", err)
	}
	return nil, nil
}

func (h *StatsHandlers) HandleGameOver(ctx context.Context, payload *matchevents.GameOverPayload) ([]shared.Result, error) {
	if _, err := h.service.ObserveGameOver(ctx, *payload); err != nil {
		return nil, fmt.Errorf("failed to observe game over: %w", err)
	}
	return nil, nil
}
