// Package statsservice watches the match fact stream and keeps the session
// stats log: round breakdowns, health timelines, and the tallies merged into
// the stats file when a match finishes.
package statsservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	statstypes "github.com/duelyard/fightcore/app/modules/stats/domain/types"
	"github.com/duelyard/fightcore/app/modules/stats/infrastructure/statsfile"
	"github.com/duelyard/fightcore/app/observability"
	"github.com/duelyard/fightcore/app/shared"
)

// StatsService accumulates the session log. The file store is optional; when
// nil the log stays in memory only.
type StatsService struct {
	file    *statsfile.Store
	logger  *slog.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
	now     func() time.Time

	mu        sync.Mutex
	log       statstypes.SessionLog
	names     map[matchtypes.SlotID]string
	health    map[matchtypes.SlotID]float64
	maxHealth map[matchtypes.SlotID]float64
}

// NewStatsService creates the stats observer. file may be nil to disable
// persistence.
func NewStatsService(
	file *statsfile.Store,
	logger *slog.Logger,
	metrics *observability.Metrics,
	tracer trace.Tracer,
) Service {
	return &StatsService{
		file:      file,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		now:       time.Now,
		names:     map[matchtypes.SlotID]string{},
		health:    map[matchtypes.SlotID]float64{},
		maxHealth: map[matchtypes.SlotID]float64{},
	}
}

type operationFunc func(ctx context.Context) (shared.OperationResult, error)

func (s *StatsService) withTelemetry(ctx context.Context, operationName string, operation operationFunc) (result shared.OperationResult, err error) {
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

// SetClock overrides the sample timestamp source. Replays install a
// synthetic clock here so instantaneous playback still spreads the health
// timeline over plausible match time.
func (s *StatsService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Tally returns the session summary so far.
func (s *StatsService) Tally() statstypes.SessionTally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Tally()
}

// Session returns a deep copy of the session log.
func (s *StatsService) Session() statstypes.SessionLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := statstypes.SessionLog{Matches: make([]statstypes.MatchLog, len(s.log.Matches))}
	copy(out.Matches, s.log.Matches)
	for i := range out.Matches {
		m := &out.Matches[i]
		m.Rounds = append([]statstypes.RoundLine(nil), m.Rounds...)
		m.Timeline = append([]statstypes.HealthSample(nil), m.Timeline...)
		for j := range m.Rounds {
			m.Rounds[j].Fighters = append([]statstypes.FighterLine(nil), m.Rounds[j].Fighters...)
		}
	}
	return out
}

// FileSummary reads back the persisted stats file.
func (s *StatsService) FileSummary() (statsfile.Summary, error) {
	if s.file == nil {
		return statsfile.Summary{Modes: map[string]statsfile.ModeSummary{}}, nil
	}
	return s.file.Summary()
}
