package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's prometheus instruments. All methods are safe on
// a nil receiver so tests can construct services without a registry.
type Metrics struct {
	factsHandled      *prometheus.CounterVec
	factsFailed       *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationFailures *prometheus.CounterVec
	matchesStarted    *prometheus.CounterVec
	roundsResolved    prometheus.Counter
	pauseTransitions  prometheus.Counter
	matchPhase        prometheus.Gauge
	playerHealth      *prometheus.GaugeVec
	roundWins         *prometheus.GaugeVec
}

// NewMetrics registers the engine instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		factsHandled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fightcore",
			Name:      "facts_handled_total",
			Help:      "Facts consumed and applied, by topic.",
		}, []string{"topic"}),
		factsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fightcore",
			Name:      "facts_failed_total",
			Help:      "Facts absorbed at the handler boundary, by topic and reason.",
		}, []string{"topic", "reason"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fightcore",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		operationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fightcore",
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an error.",
		}, []string{"operation"}),
		matchesStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fightcore",
			Name:      "matches_started_total",
			Help:      "Matches started, by mode.",
		}, []string{"mode"}),
		roundsResolved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fightcore",
			Name:      "rounds_resolved_total",
			Help:      "Rounds that reached a win/loss resolution.",
		}),
		pauseTransitions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fightcore",
			Name:      "pause_transitions_total",
			Help:      "Pause and resume transitions accepted.",
		}),
		matchPhase: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "fightcore",
			Name:      "match_phase",
			Help:      "Current lifecycle phase (0 idle, 1 playing, 2 round_end, 3 game_over).",
		}),
		playerHealth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fightcore",
			Name:      "player_health",
			Help:      "Current health per player slot.",
		}, []string{"slot"}),
		roundWins: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fightcore",
			Name:      "round_wins",
			Help:      "Round wins per player slot.",
		}, []string{"slot"}),
	}
}

func (m *Metrics) FactHandled(topic string) {
	if m == nil {
		return
	}
	m.factsHandled.WithLabelValues(topic).Inc()
}

func (m *Metrics) FactFailed(topic string, reason string) {
	if m == nil {
		return
	}
	m.factsFailed.WithLabelValues(topic, reason).Inc()
}

func (m *Metrics) ObserveOperation(operation string, elapsed time.Duration, success bool) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if !success {
		m.operationFailures.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) MatchStarted(mode string) {
	if m == nil {
		return
	}
	m.matchesStarted.WithLabelValues(mode).Inc()
}

func (m *Metrics) RoundResolved() {
	if m == nil {
		return
	}
	m.roundsResolved.Inc()
}

func (m *Metrics) PauseTransition() {
	if m == nil {
		return
	}
	m.pauseTransitions.Inc()
}

func (m *Metrics) SetPhase(ordinal int) {
	if m == nil {
		return
	}
	m.matchPhase.Set(float64(ordinal))
}

func (m *Metrics) SetPlayerHealth(slot string, health float64) {
	if m == nil {
		return
	}
	m.playerHealth.WithLabelValues(slot).Set(health)
}

func (m *Metrics) SetRoundWins(slot string, wins int) {
	if m == nil {
		return
	}
	m.roundWins.WithLabelValues(slot).Set(float64(wins))
}
