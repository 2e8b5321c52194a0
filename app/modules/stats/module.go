package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	statsservice "github.com/duelyard/fightcore/app/modules/stats/application"
	statsrouter "github.com/duelyard/fightcore/app/modules/stats/infrastructure/router"
	"github.com/duelyard/fightcore/app/modules/stats/infrastructure/statsfile"
	"github.com/duelyard/fightcore/app/observability"
	"github.com/duelyard/fightcore/app/shared"
	"github.com/duelyard/fightcore/config"
)

// Module represents the stats module.
type Module struct {
	EventBus     shared.EventBus
	StatsService statsservice.Service
	logger       *slog.Logger
	config       *config.Config
	StatsRouter  *statsrouter.StatsRouter
	cancelFunc   context.CancelFunc
}

// NewStatsModule creates a new instance of the Stats module.
func NewStatsModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	eventBus shared.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "stats.NewStatsModule called")

	var file *statsfile.Store
	if cfg.Stats.Enabled {
		file = statsfile.New(cfg.Stats.Path)
	}

	service := statsservice.NewStatsService(file, logger, obs.Metrics, obs.Tracer)

	statsRouter := statsrouter.NewStatsRouter(logger, router, eventBus, eventBus, obs.Tracer, obs.Metrics)
	if err := statsRouter.Configure(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to configure stats router: %w", err)
	}

	return &Module{
		EventBus:     eventBus,
		StatsService: service,
		logger:       logger,
		config:       cfg,
		StatsRouter:  statsRouter,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting stats module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	// Keep this goroutine alive until the context is canceled
	<-ctx.Done()
	m.logger.Info("Stats module goroutine stopped")
}

func (m *Module) Close() error {
	m.logger.Info("Stopping stats module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.logger.Info("Stats module stopped")
	return nil
}
