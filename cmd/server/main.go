/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (.env, config file, PAYROLL_* environment)
  3. Build the zap logger
  4. Open the store (sqlite or postgres)
  5. Open the summary cache (redis, or in-memory when no address is set)
  6. Load the award (award file, or the built-in SCHADS award)
  7. Wire engine, handler and router
  8. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Path to a YAML config file (default: ./config.yaml if present)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_timeout)
  3. Close cache and database connections
  4. Exit

EXAMPLES:
  # Run with defaults (sqlite payroll.db, in-memory cache)
  ./server

  # Postgres and redis
  PAYROLL_DB_DRIVER=postgres PAYROLL_DB_URL=postgres://... \
  PAYROLL_REDIS_ADDR=localhost:6379 ./server

  # Custom award and pay-run time zone
  PAYROLL_PAYROLL_AWARD_FILE=./award.yaml \
  PAYROLL_PAYROLL_TIMEZONE=Australia/Sydney ./server

SEE ALSO:
  - config/config.go: Settings and defaults
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/award"
	"github.com/warp/payroll-engine/cache"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/logger"
	"github.com/warp/payroll-engine/schads"
	"github.com/warp/payroll-engine/store"
	"github.com/warp/payroll-engine/store/postgres"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx := context.Background()

	// Initialize store
	db, err := openStore(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	// Initialize summary cache
	summaries, err := openCache(cfg.Redis, zlog)
	if err != nil {
		return err
	}
	defer summaries.Close()

	payAward, err := loadAward(cfg.Payroll.AwardFile)
	if err != nil {
		return err
	}
	loc, err := cfg.Payroll.Location()
	if err != nil {
		return err
	}

	engine := award.NewEngine(db, db, payAward, award.Config{
		Workers:  cfg.Payroll.Workers,
		Location: loc,
	}, zlog.Named("engine"))

	handler := api.NewHandler(db, engine, summaries, zlog.Named("api"))
	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("db", cfg.DB.Driver),
			zap.String("award", payAward.Name))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	zlog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zlog.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.DBConfig) (store.Store, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.New(ctx, cfg.URL)
	default:
		return sqlite.New(cfg.SQLitePath)
	}
}

func openCache(cfg config.RedisConfig, zlog *zap.Logger) (cache.Cache, error) {
	if cfg.Addr == "" {
		return cache.NewMemory(cfg.TTL), nil
	}
	return cache.NewRedis(cfg, zlog.Named("redis"))
}

func loadAward(path string) (award.Award, error) {
	if path == "" {
		return schads.Award(), nil
	}
	return factory.LoadAwardFile(path)
}
