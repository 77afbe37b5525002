package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/config"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/database"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/httpserver"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/metrics"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/middleware"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	defer logger.Sync()

	logger.Info("starting marketing analytics service",
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.Server.Addr),
		zap.String("event_store", cfg.EventStore),
	)

	ctx := context.Background()

	// Initialize database connections. Each one degrades gracefully: the
	// server falls back to in-memory stores when a backend is unreachable.
	var db *database.PostgresDB
	var ch *database.ClickHouseDB
	var rdb *database.RedisDB

	db, err = database.NewPostgresDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Warn("PostgreSQL not available, using in-memory storage", zap.Error(err))
		db = nil
	} else {
		defer db.Close()
	}

	if cfg.EventStore == config.EventStoreClickHouse {
		ch, err = database.NewClickHouseDB(ctx, cfg.ClickHouse, logger)
		if err != nil {
			logger.Warn("ClickHouse not available, falling back to in-memory event log", zap.Error(err))
			ch = nil
		} else {
			defer ch.Close()
			if err := storage.NewClickHouseEventLog(ch.Conn, logger).InitSchema(ctx); err != nil {
				logger.Error("failed to initialize ClickHouse schema", zap.Error(err))
			}
		}
	}

	if cfg.Cache.Enabled {
		rdb, err = database.NewRedisDB(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis not available, metric caching disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Create HTTP server
	deps := &httpserver.Dependencies{
		DB:         db,
		ClickHouse: ch,
		Redis:      rdb,
		Config:     cfg,
		Logger:     logger,
		Metrics:    m,
	}

	handler := buildHandler(httpserver.NewServer(deps), cfg, logger, m)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// buildHandler wraps the mux with the middleware chain, outermost first:
// recovery, logging, rate limiting, auth.
func buildHandler(mux http.Handler, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) http.Handler {
	handler := middleware.NewAuthMiddleware(cfg.Auth, logger).Handler(mux)
	handler = middleware.NewRateLimitMiddleware(cfg.RateLimit, logger).Handler(handler)
	handler = middleware.NewLoggingMiddleware(logger, m).Handler(handler)
	handler = middleware.NewRecoveryMiddleware(logger).Handler(handler)
	return handler
}

func setupLogger(cfg *config.Config) *zap.Logger {
	var zapCfg zap.Config

	if cfg.IsDevelopment() || cfg.Log.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	// Set log level
	switch cfg.Log.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}

	return logger
}
