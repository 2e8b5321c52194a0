// Package matchservice implements the round lifecycle controller. Every
// operation runs synchronously against the state store and reports its
// outcome as an OperationResult; errors are diagnostic and absorbed at the
// fact boundary by the caller.
package matchservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	matchclock "github.com/duelyard/fightcore/app/modules/match/domain/clock"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchhud "github.com/duelyard/fightcore/app/modules/match/domain/hud"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	matchroster "github.com/duelyard/fightcore/app/modules/match/infrastructure/roster"
	matchstate "github.com/duelyard/fightcore/app/modules/match/infrastructure/state"
	"github.com/duelyard/fightcore/app/observability"
	"github.com/duelyard/fightcore/app/shared"
)

// Rejection describes an absorbed no-op outcome: the operation ran, decided
// the fact could not apply, and left state unchanged.
type Rejection struct {
	Reason string            `json:"reason"`
	Slot   matchtypes.SlotID `json:"slot,omitempty"`
	Raw    string            `json:"raw,omitempty"`
}

const (
	rejectUnknownSlot    = "unknown_slot"
	rejectMalformedScore = "malformed_score"
	rejectPhase          = "phase"
)

// MatchService coordinates the round lifecycle over the injected state
// store.
type MatchService struct {
	store        *matchstate.Store
	roster       *matchroster.Roster
	modes        map[matchtypes.ModeName]matchtypes.ModeDescriptor
	defaultMode  matchtypes.ModeName
	roundSeconds float64
	logger       *slog.Logger
	metrics      *observability.Metrics
	tracer       trace.Tracer
}

// NewMatchService creates the lifecycle controller. The store is injected
// rather than owned so tests and embedders can supply their own.
func NewMatchService(
	store *matchstate.Store,
	roster *matchroster.Roster,
	modes map[matchtypes.ModeName]matchtypes.ModeDescriptor,
	defaultMode matchtypes.ModeName,
	roundSeconds float64,
	logger *slog.Logger,
	metrics *observability.Metrics,
	tracer trace.Tracer,
) Service {
	descriptors := make(map[matchtypes.ModeName]matchtypes.ModeDescriptor, len(modes))
	for name, mode := range modes {
		descriptors[name] = mode
	}
	return &MatchService{
		store:        store,
		roster:       roster,
		modes:        descriptors,
		defaultMode:  defaultMode,
		roundSeconds: roundSeconds,
		logger:       logger,
		metrics:      metrics,
		tracer:       tracer,
	}
}

type operationFunc func(ctx context.Context) (shared.OperationResult, error)

// withTelemetry wraps an operation in a span, duration metric, and panic
// recovery. A recovered panic surfaces as an error so the fact boundary can
// absorb and count it.
func (s *MatchService) withTelemetry(ctx context.Context, operationName string, operation operationFunc) (result shared.OperationResult, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, operationName,
		trace.WithAttributes(attribute.String("match.id", s.store.MatchID())))
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

// Snapshot returns a deep copy of the current match state.
func (s *MatchService) Snapshot() matchtypes.Snapshot {
	return s.store.Snapshot()
}

// View returns the HUD view model derived from the current state.
func (s *MatchService) View() matchhud.View {
	return matchhud.BuildView(s.store.Snapshot())
}

// initialTimer returns the raw timer value a fresh round starts with under
// mode: a full countdown, the hidden sentinel, or a zeroed stopwatch.
func (s *MatchService) initialTimer(mode matchtypes.ModeDescriptor) float64 {
	switch mode.Timer {
	case matchclock.KindHidden:
		return matchclock.EncodeHidden()
	case matchclock.KindElapsed:
		return matchclock.EncodeElapsed(0)
	default:
		return matchclock.EncodeCountdown(s.roundSeconds)
	}
}

func healthFact(p matchtypes.Player) matchevents.PlayerHealthChangedPayload {
	return matchevents.PlayerHealthChangedPayload{
		PlayerID:  p.Slot,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
	}
}

// syncScoreGauges pushes the current win tallies into the metrics gauges.
func (s *MatchService) syncScoreGauges() {
	score := s.store.Score()
	for _, slot := range matchtypes.Slots() {
		s.metrics.SetRoundWins(string(slot), score[slot])
	}
}
