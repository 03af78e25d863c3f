// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the campus directory HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the account and profile stores (PostgreSQL with migrations, or memory).
//  4. Connect to Redis when REDIS_URL is set.
//  5. Wire services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/campusdir/internal/api"
	"github.com/taibuivan/campusdir/internal/institution/auth"
	"github.com/taibuivan/campusdir/internal/institution/profile"
	"github.com/taibuivan/campusdir/internal/platform/config"
	"github.com/taibuivan/campusdir/internal/platform/constants"
	"github.com/taibuivan/campusdir/internal/platform/migration"
	pgstore "github.com/taibuivan/campusdir/internal/platform/postgres"
	redisstore "github.com/taibuivan/campusdir/internal/platform/redis"
	"github.com/taibuivan/campusdir/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	health := api.HealthDependencies{}

	// ── 3. Stores ─────────────────────────────────────────────────────────
	var (
		accounts auth.AccountRepository
		profiles profile.Repository
	)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		accounts = auth.NewPostgresAccountRepository(pool)
		profiles = profile.NewPostgresRepository(pool)
		health.CheckDatabase = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }

	default:
		log.Warn("memory_store_enabled", slog.String("hint", "data is lost on restart"))
		accounts = auth.NewMemoryAccountRepository()
		profiles = profile.NewMemoryRepository()
	}

	// ── 4. Redis (optional profile cache) ─────────────────────────────────
	var cache profile.Cache = profile.NoopCache{}
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()

		cache = profile.NewRedisCache(rdb, cfg.ProfileCacheTTL)
		health.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	must(log, err, "initialize token service")

	identityService := auth.NewService(accounts, sec.NewHasher(cfg.BcryptCost), tokens, cfg.TokenTTL)
	profileService := profile.NewService(profiles, identityService, cache)

	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(identityService),
		Profile:   profile.NewHandler(profileService),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the application name and
// installs it as the slog default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// It is limited to startup wiring.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
