// cmd/scriptforge/main.go
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

	"scriptforge/internal/agents/llm"
	"scriptforge/internal/agents/research"
	"scriptforge/internal/agents/scriptwriter"
	"scriptforge/internal/analytics"
	"scriptforge/internal/api"
	"scriptforge/internal/common/config"
	"scriptforge/internal/common/database"
	"scriptforge/internal/common/logger"
	"scriptforge/internal/common/observability"
	"scriptforge/internal/generation"
	"scriptforge/internal/search"
	"scriptforge/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting scriptforge...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if err := cfg.Validate(); err != nil {
		zapLog.Fatal("config validation failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Tracing.Enabled {
		shutdownTracing, err := observability.InitTracing(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			zapLog.Fatal("tracing init failed", zap.Error(err))
		}
		defer shutdownTracing()
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	scripts := store.New(pg, log)
	if err := scripts.Migrate(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	// The cache is optional: analytics falls back to direct queries when
	// Redis is unavailable, so a failure here is not fatal.
	var cache *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		cache, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return cache.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		cache = nil
	} else {
		defer cache.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init LLM provider and agents ---
	provider, err := llm.New(cfg.LLM)
	if err != nil {
		zapLog.Fatal("llm provider init failed", zap.Error(err))
	}
	zapLog.Info("LLM provider initialized", zap.String("provider", provider.Name()))

	var researcher generation.Researcher
	if cfg.Search.Enabled {
		researcher = research.NewWebAgent(provider, search.NewClient(cfg.Search, log), log)
		zapLog.Info("web search enabled for research")
	} else {
		researcher = research.NewAgent(provider, log)
	}

	writer := scriptwriter.NewAgent(provider, log)
	generator := generation.NewService(researcher, writer, scripts, log)

	cacheTTL := time.Duration(cfg.Analytics.CacheTTL) * time.Second
	dashboard := analytics.NewService(pg, cache, cacheTTL, log)

	// --- HTTP Server ---
	server := api.NewServer(generator, scripts, dashboard, obs, log, cfg.App.Version)
	httpServer := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     server.Routes(),
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("scriptforge stopped gracefully")
}
