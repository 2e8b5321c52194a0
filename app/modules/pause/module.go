package pause

import (
	"context"
	"log/slog"
	"sync"

	pauseservice "github.com/duelyard/fightcore/app/modules/pause/application"
	"github.com/duelyard/fightcore/app/observability"
	"github.com/duelyard/fightcore/app/shared"
	"github.com/duelyard/fightcore/config"
)

// Module represents the pause module. It has no inbound fact handlers: the
// controller is driven by the API surface and publishes transitions itself.
type Module struct {
	EventBus     shared.EventBus
	PauseService pauseservice.Service
	logger       *slog.Logger
	config       *config.Config
	cancelFunc   context.CancelFunc
}

// NewPauseModule creates a new instance of the Pause module.
func NewPauseModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	suspender pauseservice.Suspender,
	eventBus shared.EventBus,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "pause.NewPauseModule called")

	service := pauseservice.NewPauseService(suspender, eventBus, logger, obs.Metrics, obs.Tracer)

	return &Module{
		EventBus:     eventBus,
		PauseService: service,
		logger:       logger,
		config:       cfg,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting pause module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	// Keep this goroutine alive until the context is canceled
	<-ctx.Done()
	m.logger.Info("Pause module goroutine stopped")
}

func (m *Module) Close() error {
	m.logger.Info("Stopping pause module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.logger.Info("Pause module stopped")
	return nil
}
