package match

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"

	matchservice "github.com/duelyard/fightcore/app/modules/match/application"
	matchclock "github.com/duelyard/fightcore/app/modules/match/domain/clock"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	matchroster "github.com/duelyard/fightcore/app/modules/match/infrastructure/roster"
	matchrouter "github.com/duelyard/fightcore/app/modules/match/infrastructure/router"
	matchstate "github.com/duelyard/fightcore/app/modules/match/infrastructure/state"
	"github.com/duelyard/fightcore/app/observability"
	"github.com/duelyard/fightcore/app/shared"
	"github.com/duelyard/fightcore/config"
)

// Module represents the match module.
type Module struct {
	EventBus     shared.EventBus
	MatchService matchservice.Service
	logger       *slog.Logger
	config       *config.Config
	MatchRouter  *matchrouter.MatchRouter
	cancelFunc   context.CancelFunc
}

// NewMatchModule creates a new instance of the Match module.
func NewMatchModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	roster *matchroster.Roster,
	eventBus shared.EventBus,
	router *message.Router,
	registry *prometheus.Registry,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "match.NewMatchModule called")

	// Initialize match service.
	service := matchservice.NewMatchService(
		matchstate.New(),
		roster,
		ModesFromConfig(cfg),
		matchtypes.ModeName(cfg.Engine.DefaultMode),
		cfg.Engine.RoundSeconds,
		logger,
		obs.Metrics,
		obs.Tracer,
	)

	// Initialize match router.
	matchRouter := matchrouter.NewMatchRouter(logger, router, eventBus, eventBus, obs.Tracer, obs.Metrics, registry)

	// Configure the router with the match service.
	if err := matchRouter.Configure(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to configure match router: %w", err)
	}

	return &Module{
		EventBus:     eventBus,
		MatchService: service,
		logger:       logger,
		config:       cfg,
		MatchRouter:  matchRouter,
	}, nil
}

// ModesFromConfig maps configured modes onto domain descriptors, falling
// back to the built-in set when the config carries none.
func ModesFromConfig(cfg *config.Config) map[matchtypes.ModeName]matchtypes.ModeDescriptor {
	if len(cfg.Modes) == 0 {
		return matchtypes.DefaultModes()
	}
	modes := make(map[matchtypes.ModeName]matchtypes.ModeDescriptor, len(cfg.Modes))
	for name, mc := range cfg.Modes {
		kind, err := matchclock.ParseKind(mc.Timer)
		if err != nil {
			// Config validation rejects unknown kinds before this runs.
			kind = matchclock.KindCountdown
		}
		modes[matchtypes.ModeName(name)] = matchtypes.ModeDescriptor{
			Name:      matchtypes.ModeName(name),
			MaxRounds: mc.MaxRounds,
			Timer:     kind,
		}
	}
	return modes
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting match module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	// Keep this goroutine alive until the context is canceled
	<-ctx.Done()
	m.logger.Info("Match module goroutine stopped")
}

func (m *Module) Close() error {
	m.logger.Info("Stopping match module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.logger.Info("Match module stopped")
	return nil
}
