package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/garnizeh/zelar/api"
	dbfs "github.com/garnizeh/zelar/db"
	"github.com/garnizeh/zelar/internal/config"
	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/internal/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootLog := logger.New(config.LoggingConfig{}, os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.Logging, os.Stdout)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	api.SetLogger(log)

	log.Info().Str("version", version).Str("build_time", buildTime).Str("env", cfg.Env).Msg("starting zelar server")

	ctx := context.Background()

	dbCtx, dbCancel := context.WithTimeout(ctx, cfg.APITimeout)
	m, err := db.Open(dbCtx, db.OptionsFromConfig(cfg.Database), log)
	if err != nil {
		dbCancel()
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := db.EnsureSchema(dbCtx, m, dbfs.Migrations); err != nil {
		dbCancel()
		m.Close()
		log.Fatal().Err(err).Msg("failed to initialise schema")
	}
	dbCancel()

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.SetupRoutes(version, buildTime, m),
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err := m.Close(); err != nil {
		log.Error().Err(err).Msg("error closing database")
	}

	log.Info().Msg("server exited")
}
