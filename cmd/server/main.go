package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/squadpick/internal/api"
	"github.com/vytor/squadpick/internal/config"
	"github.com/vytor/squadpick/internal/db"
	"github.com/vytor/squadpick/internal/logger"
	"github.com/vytor/squadpick/internal/metrics"
	"github.com/vytor/squadpick/internal/repository"
	"github.com/vytor/squadpick/internal/repository/gormstore"
	"github.com/vytor/squadpick/internal/repository/sqlite"
	"github.com/vytor/squadpick/internal/services"
	"github.com/vytor/squadpick/internal/validation"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Squadpick Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_driver=%s", cfg.DBDriver)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("request_timeout=%s", cfg.RequestTimeout)
	log.Debug("metrics_enabled=%t", cfg.MetricsEnabled)
	log.Debug("otlp_endpoint=%s", cfg.OTLPEndpoint)

	playerRepo, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		if err := closeStore(); err != nil {
			log.Warn("database close error: %v", err)
		}
	}()

	ctx := context.Background()
	recorder, metricsHandler, shutdownMetrics, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.MetricsEnabled,
		ServiceName:  cfg.ServiceName,
		OtlpEndpoint: cfg.OTLPEndpoint,
		OtlpInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		log.Error("failed to set up metrics: %v", err)
		os.Exit(1)
	}

	validator := validation.New()
	srv := &api.Server{
		PlayerService:        services.NewPlayerService(playerRepo, validator),
		TeamSelectionService: services.NewTeamSelectionService(playerRepo, recorder),
		Metrics:              recorder,
		MetricsHandler:       metricsHandler,
		Ready:                playerRepo.Ping,
		RequestTimeout:       cfg.RequestTimeout,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("flushing metrics")
	if err := shutdownMetrics(shutdownCtx); err != nil {
		log.Error("metrics shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Squadpick Server Stopped")
	log.Info("===========================================")
}

// openStore returns the player repository for the configured driver and a func
// that releases its connections.
func openStore(cfg config.Config) (repository.PlayerRepository, func() error, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		gdb, err := gormstore.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		return gormstore.NewPlayerRepository(gdb), sqlDB.Close, nil
	case config.DriverSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewPlayerRepository(database.DB), database.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
