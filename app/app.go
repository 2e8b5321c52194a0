// Package app composes the engine: the fact bus, the watermill router, the
// match, pause, and stats modules, the frame loop, and the HTTP surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/duelyard/fightcore/app/api"
	"github.com/duelyard/fightcore/app/eventbus"
	"github.com/duelyard/fightcore/app/loop"
	"github.com/duelyard/fightcore/app/modules/match"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchroster "github.com/duelyard/fightcore/app/modules/match/infrastructure/roster"
	"github.com/duelyard/fightcore/app/modules/pause"
	pauseservice "github.com/duelyard/fightcore/app/modules/pause/application"
	"github.com/duelyard/fightcore/app/modules/stats"
	"github.com/duelyard/fightcore/app/observability"
	"github.com/duelyard/fightcore/config"
)

// App owns every long-lived component of a running engine.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	EventBus      *eventbus.Bus
	Router        *message.Router
	MatchModule   *match.Module
	PauseModule   *pause.Module
	StatsModule   *stats.Module
	Loop          *loop.Runner
	APIServer     *api.Server

	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// New wires the application. Nothing runs until Run is called.
func New(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	bus := eventbus.New(logger, cfg.Engine.BusBuffer)

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer, middleware.CorrelationID)

	roster, err := loadRoster(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Router metrics attach once, through the match router only; a second
	// attachment would double-count every handler.
	var routerRegistry *prometheus.Registry
	if cfg.Observability.RouterMetrics {
		routerRegistry = obs.Registry
	}

	matchModule, err := match.NewMatchModule(ctx, cfg, obs, roster, bus, router, routerRegistry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize match module: %w", err)
	}

	statsModule, err := stats.NewStatsModule(ctx, cfg, obs, bus, router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stats module: %w", err)
	}

	runner := loop.New(logger, cfg.Engine.TickRate)

	pauseModule, err := pause.NewPauseModule(ctx, cfg, obs, runner, bus)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pause module: %w", err)
	}

	fightStep := idleStep
	if cfg.Engine.DriveTicks {
		fightStep = NewTickDriver(logger, bus, matchModule.MatchService).Step
	}
	if err := runner.Register(matchevents.SceneFight, fightStep); err != nil {
		return nil, fmt.Errorf("failed to register fight loop: %w", err)
	}
	if err := runner.Register(pauseservice.MenuContext, idleStep); err != nil {
		return nil, fmt.Errorf("failed to register menu loop: %w", err)
	}

	apiServer := api.NewServer(
		cfg.Server.Addr,
		logger,
		matchModule.MatchService,
		pauseModule.PauseService,
		statsModule.StatsService,
		bus,
		obs.Registry,
	)

	return &App{
		Config:        cfg,
		Observability: obs,
		EventBus:      bus,
		Router:        router,
		MatchModule:   matchModule,
		PauseModule:   pauseModule,
		StatsModule:   statsModule,
		Loop:          runner,
		APIServer:     apiServer,
		logger:        logger,
	}, nil
}

// idleStep is the menu loop's frame: it keeps the context schedulable
// without producing facts.
func idleStep(ctx context.Context, dt time.Duration) error { return nil }

// loadRoster reads the configured roster file, or falls back to the stock
// roster when none is configured.
func loadRoster(cfg *config.Config, logger *slog.Logger) (*matchroster.Roster, error) {
	if cfg.Roster.Path == "" {
		return matchroster.Builtin(cfg.Engine.MaxHealth), nil
	}
	roster, err := matchroster.Load(cfg.Roster.Path, cfg.Engine.MaxHealth)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster %s: %w", cfg.Roster.Path, err)
	}
	logger.Info("roster loaded",
		slog.String("path", cfg.Roster.Path),
		slog.Int("fighters", roster.Len()),
	)
	return roster, nil
}

// Run starts everything and blocks until ctx cancels or a component fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancelFunc = cancel
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Router.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("message router failed: %w", err)
		}
		return nil
	})

	// Publishing before the router subscribes would drop facts on the floor.
	select {
	case <-a.Router.Running():
	case <-gctx.Done():
		return g.Wait()
	}

	var wg sync.WaitGroup
	for _, module := range []interface {
		Run(context.Context, *sync.WaitGroup)
	}{a.MatchModule, a.StatsModule, a.PauseModule} {
		wg.Add(1)
		module := module
		go func() {
			defer wg.Done()
			module.Run(gctx, nil)
		}()
	}

	a.Loop.Start(pauseservice.MenuContext)
	a.Loop.Start(matchevents.SceneFight)

	g.Go(func() error {
		return a.watchGameStarts(gctx)
	})

	g.Go(func() error {
		return a.APIServer.Run(gctx)
	})

	a.logger.Info("engine running",
		slog.String("addr", a.Config.Server.Addr),
		slog.String("default_mode", a.Config.Engine.DefaultMode),
		slog.Bool("drive_ticks", a.Config.Engine.DriveTicks),
	)

	err := g.Wait()
	wg.Wait()
	a.Loop.StopAll()
	return err
}

// watchGameStarts restarts the fight loop for every fresh match. Returning
// to the menu stops the fight context, so each game-started fact brings it
// back.
func (a *App) watchGameStarts(ctx context.Context) error {
	messages, err := a.EventBus.Subscribe(ctx, matchevents.GameStarted)
	if err != nil {
		return fmt.Errorf("failed to watch game starts: %w", err)
	}
	for msg := range messages {
		msg.Ack()
		a.Loop.Start(matchevents.SceneFight)
	}
	return nil
}

// Close tears the application down in dependency order.
func (a *App) Close() error {
	if a.cancelFunc != nil {
		a.cancelFunc()
	}
	a.Loop.StopAll()

	return errors.Join(
		a.MatchModule.Close(),
		a.PauseModule.Close(),
		a.StatsModule.Close(),
		a.Router.Close(),
		a.EventBus.Close(),
	)
}
