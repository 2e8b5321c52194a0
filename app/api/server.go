// Package api exposes the engine over HTTP: read surfaces for presentation
// observers, a host-surrogate command surface that publishes facts onto the
// bus, and a websocket feed mirroring the fact stream to spectators.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	matchservice "github.com/duelyard/fightcore/app/modules/match/application"
	pauseservice "github.com/duelyard/fightcore/app/modules/pause/application"
	statsservice "github.com/duelyard/fightcore/app/modules/stats/application"
	"github.com/duelyard/fightcore/app/shared"
)

const shutdownTimeout = 5 * time.Second

// Server is the engine's HTTP face.
type Server struct {
	logger   *slog.Logger
	match    matchservice.Service
	pause    pauseservice.Service
	stats    statsservice.Service
	bus      shared.EventBus
	registry *prometheus.Registry
	feed     *FeedHub

	httpServer *http.Server
}

// NewServer wires the HTTP server. The registry may be nil, in which case
// /metrics is not mounted.
func NewServer(
	addr string,
	logger *slog.Logger,
	match matchservice.Service,
	pause pauseservice.Service,
	stats statsservice.Service,
	bus shared.EventBus,
	registry *prometheus.Registry,
) *Server {
	s := &Server{
		logger:   logger,
		match:    match,
		pause:    pause,
		stats:    stats,
		bus:      bus,
		registry: registry,
		feed:     NewFeedHub(logger, bus),
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	return s
}

// Routes builds the chi router for the full API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.HandleHealthz)
	if s.registry != nil {
		r.Get("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.HandleState)
		r.Get("/hud", s.HandleHUD)
		r.Get("/feed", s.feed.Handle)

		r.Route("/match", func(r chi.Router) {
			r.Post("/start", s.HandleStartMatch)
			r.Post("/scene-ready", s.HandleSceneReady)
			r.Post("/damage", s.HandleDamage)
			r.Post("/defeat", s.HandleDefeat)
			r.Post("/round-end", s.HandleRoundEnd)
			r.Post("/game-over", s.HandleGameOver)
		})

		r.Route("/pause", func(r chi.Router) {
			r.Get("/", s.HandlePauseState)
			r.Post("/", s.HandlePause)
			r.Post("/resume", s.HandleResume)
			r.Post("/menu", s.HandleReturnToMenu)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", s.HandleStatsTally)
			r.Get("/session", s.HandleStatsSession)
			r.Get("/summary", s.HandleStatsSummary)
			r.Get("/timeline.png", s.HandleTimelinePNG)
		})
	})

	return r
}

// Run serves until ctx cancels, then shuts down gracefully. The feed hub's
// bus subscriptions live for the duration of ctx.
func (s *Server) Run(ctx context.Context) error {
	if err := s.feed.Start(ctx); err != nil {
		return fmt.Errorf("failed to start feed hub: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.feed.Close()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
