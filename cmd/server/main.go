package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tripjournal/tripjournal/internal/config"
	"github.com/tripjournal/tripjournal/internal/logger"
	"github.com/tripjournal/tripjournal/internal/server"
	"github.com/tripjournal/tripjournal/internal/workers"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	// Create server
	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Msg("Starting Trip Journal API...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the orphaned upload sweeper
	sweeper, err := workers.NewUploadSweeper(srv.GetDB(), cfg.UploadDir, cfg.UploadSweepSchedule, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload sweeper")
	}
	go sweeper.Run(ctx)

	// Serve until interrupted (this blocks)
	if err := srv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
