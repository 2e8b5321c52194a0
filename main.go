package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/duelyard/fightcore/app"
	"github.com/duelyard/fightcore/app/observability"
	"github.com/duelyard/fightcore/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	obs := observability.Init(cfg.Observability.LogLevel)
	logger := obs.Logger

	application, err := app.New(ctx, cfg, obs)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Engine stopped with error", "error", err)
	}

	logger.Info("Shutting down engine")
	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}

	logger.Info("Engine stopped")
}
