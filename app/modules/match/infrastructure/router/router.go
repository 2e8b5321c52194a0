package matchrouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	matchservice "github.com/duelyard/fightcore/app/modules/match/application"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchhandlers "github.com/duelyard/fightcore/app/modules/match/infrastructure/handlers"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

const (
	// TestEnvironmentFlag is the flag to check if we're in a test environment
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// MatchRouter wires match fact topics to their handlers.
type MatchRouter struct {
	logger             *slog.Logger
	Router             *message.Router
	subscriber         shared.EventBus
	publisher          shared.EventBus
	tracer             trace.Tracer
	handlerMetrics     shared.HandlerMetrics
	metricsBuilder     *metrics.PrometheusMetricsBuilder
	prometheusRegistry *prometheus.Registry
	metricsEnabled     bool
}

// NewMatchRouter creates a new MatchRouter. Router-level Prometheus metrics
// are attached only when a registry is provided and we are not running under
// the test environment flag.
func NewMatchRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber shared.EventBus,
	publisher shared.EventBus,
	tracer trace.Tracer,
	handlerMetrics shared.HandlerMetrics,
	prometheusRegistry *prometheus.Registry,
) *MatchRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &MatchRouter{
		logger:             logger,
		Router:             router,
		subscriber:         subscriber,
		publisher:          publisher,
		tracer:             tracer,
		handlerMetrics:     handlerMetrics,
		metricsBuilder:     metricsBuilder,
		prometheusRegistry: prometheusRegistry,
		metricsEnabled:     prometheusRegistry != nil && !inTestEnv,
	}
}

// Configure registers the match handlers on the router.
func (r *MatchRouter) Configure(ctx context.Context, service matchservice.Service) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Match")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	handlers := matchhandlers.NewMatchHandlers(service, r.logger)
	r.registerHandlers(handlers)
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber shared.EventBus
	publisher  shared.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    shared.HandlerMetrics
}

// registerHandler registers a pure transformation-pattern handler with typed payload
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]shared.Result, error),
) {
	handlerName := "match." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"", // Watermill reads topic from message metadata when empty
		deps.publisher,
		shared.WrapTransformingTyped(
			topic,
			handler,
			deps.logger,
			deps.tracer,
			deps.metrics,
		),
	)
}

// registerHandlers registers all match module handlers using the generic pattern
func (r *MatchRouter) registerHandlers(handlers matchhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.handlerMetrics,
	}

	registerHandler(deps, matchevents.GameStarted, handlers.HandleGameStarted)
	registerHandler(deps, matchevents.RoundTimer, handlers.HandleRoundTimer)
	registerHandler(deps, matchevents.FighterDamaged, handlers.HandleFighterDamaged)
	registerHandler(deps, matchevents.FighterDefeated, handlers.HandleFighterDefeated)
	registerHandler(deps, matchevents.RoundEnded, handlers.HandleRoundEnded)
	registerHandler(deps, matchevents.GameOver, handlers.HandleGameOver)
	registerHandler(deps, matchevents.SceneReady, handlers.HandleSceneReady)
	registerHandler(deps, pauseevents.GameExitToMenu, handlers.HandleExitToMenu)
}

// Close stops the router.
func (r *MatchRouter) Close() error {
	return r.Router.Close()
}
