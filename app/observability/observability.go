// Package observability bundles the logger, tracer, and metrics registry
// that every module receives at construction.
package observability

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Observability is passed to each module at wiring time.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
	Metrics  *Metrics
}

// Init builds the process-wide observability stack: a text slog handler on
// stderr at the configured level, the global otel tracer (noop unless the
// operator installs an SDK), and a fresh prometheus registry with the engine
// metrics registered.
func Init(logLevel string) *Observability {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(logLevel),
	}))
	registry := prometheus.NewRegistry()
	return &Observability{
		Logger:   logger,
		Tracer:   otel.GetTracerProvider().Tracer("fightcore"),
		Registry: registry,
		Metrics:  NewMetrics(registry),
	}
}

// ParseLevel maps a config level string onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
