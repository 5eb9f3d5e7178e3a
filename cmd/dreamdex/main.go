package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dreamdex/internal/app"
	"github.com/kailas-cloud/dreamdex/internal/config"
	logpkg "github.com/kailas-cloud/dreamdex/internal/logger"
	"github.com/kailas-cloud/dreamdex/internal/metrics"
	chiTransport "github.com/kailas-cloud/dreamdex/internal/transport/chi"
	"github.com/kailas-cloud/dreamdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logpkg.Sync(logger) }()

	logger.Info("Starting dreamdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, app.WithRecorder(metrics.NewRecorder()))
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	logger.Info("Keyword table loaded",
		zap.Int("phrases", a.Keywords.Len()),
		zap.String("file", cfg.Search.KeywordsFile),
	)

	server := chiTransport.NewServer(
		a.Search, a.Autocomplete, a.SearchLog, a.Health, logger.Named("http"),
		chiTransport.WithAPIKeys(cfg.Auth.APIKeys),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// In-flight search log writes finish before the store closes.
	if err := a.Close(); err != nil {
		logger.Error("Error closing application", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
