package statsrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	statsservice "github.com/duelyard/fightcore/app/modules/stats/application"
	statshandlers "github.com/duelyard/fightcore/app/modules/stats/infrastructure/handlers"
	"github.com/duelyard/fightcore/app/shared"
)

// StatsRouter wires the observed match topics to the stats handlers. Router
// metrics stay with the match router; this one only listens.
type StatsRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     shared.EventBus
	publisher      shared.EventBus
	tracer         trace.Tracer
	handlerMetrics shared.HandlerMetrics
}

// NewStatsRouter creates a new StatsRouter.
func NewStatsRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber shared.EventBus,
	publisher shared.EventBus,
	tracer trace.Tracer,
	handlerMetrics shared.HandlerMetrics,
) *StatsRouter {
	return &StatsRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		handlerMetrics: handlerMetrics,
	}
}

// Configure registers the stats handlers on the router.
func (r *StatsRouter) Configure(ctx context.Context, service statsservice.Service) error {
	handlers := statshandlers.NewStatsHandlers(service, r.logger)
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
	handlerName := "stats." + topic

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

func (r *StatsRouter) registerHandlers(handlers statshandlers.Handlers) {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.handlerMetrics,
	}

	registerHandler(deps, matchevents.GameStarted, handlers.HandleGameStarted)
	registerHandler(deps, matchevents.PlayerHealthChanged, handlers.HandlePlayerHealthChanged)
	registerHandler(deps, matchevents.RoundEnded, handlers.HandleRoundEnded)
	registerHandler(deps, matchevents.GameOver, handlers.HandleGameOver)
}

// Close stops the router.
func (r *StatsRouter) Close() error {
	return r.Router.Close()
}
