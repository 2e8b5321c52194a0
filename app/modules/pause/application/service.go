// Package pauseservice implements the pause/resume controller. It guards the
// frame loop's gameplay contexts and announces every accepted transition as a
// fact, exactly once.
package pauseservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/duelyard/fightcore/app/observability"
	"github.com/duelyard/fightcore/app/shared"
)

// MenuContext is the loop context the engine parks in after an exit.
const MenuContext = "menu"

// PauseService tracks whether gameplay is suspended and which context it left.
type PauseService struct {
	suspender Suspender
	publisher shared.EventBus
	logger    *slog.Logger
	metrics   *observability.Metrics
	tracer    trace.Tracer

	mu          sync.Mutex
	paused      bool
	mode        string
	contextName string
}

// NewPauseService creates the pause controller.
func NewPauseService(
	suspender Suspender,
	publisher shared.EventBus,
	logger *slog.Logger,
	metrics *observability.Metrics,
	tracer trace.Tracer,
) Service {
	return &PauseService{
		suspender: suspender,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
	}
}

type operationFunc func(ctx context.Context) (shared.OperationResult, error)

// withTelemetry wraps an operation in a span, duration metric, and panic
// recovery, matching the match service's boundary discipline.
func (s *PauseService) withTelemetry(ctx context.Context, operationName string, operation operationFunc) (result shared.OperationResult, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, operationName)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			span.RecordError(err)
			s.logger.Error("recovered panic in operation",
				slog.String("operation", operationName),
				slog.Any("panic", r),
			)
		}
		s.metrics.ObserveOperation(operationName, time.Since(start), err == nil)
	}()

	result, err = operation(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return result, err
}

// State returns the current pause state.
func (s *PauseService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Paused:      s.paused,
		Mode:        s.mode,
		ContextName: s.contextName,
	}
}
