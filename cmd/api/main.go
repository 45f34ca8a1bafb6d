// Copyright (c) 2026 PrepDeck. All rights reserved.

// Command api is the entry point for the PrepDeck HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire domain services, the realtime hub, and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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
	"time"

	"github.com/prepdeck/prepdeck/internal/ai"
	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/execution"
	"github.com/prepdeck/prepdeck/internal/interview"
	"github.com/prepdeck/prepdeck/internal/platform/config"
	"github.com/prepdeck/prepdeck/internal/platform/constants"
	"github.com/prepdeck/prepdeck/internal/platform/middleware"
	"github.com/prepdeck/prepdeck/internal/platform/migration"
	pgstore "github.com/prepdeck/prepdeck/internal/platform/postgres"
	redisstore "github.com/prepdeck/prepdeck/internal/platform/redis"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
	"github.com/prepdeck/prepdeck/internal/progress"
	"github.com/prepdeck/prepdeck/internal/question"
	"github.com/prepdeck/prepdeck/internal/realtime"
	"github.com/prepdeck/prepdeck/internal/users/account"
	"github.com/prepdeck/prepdeck/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	revokedTokens := auth.NewRevokedTokenRepository(rdb)
	verifier := auth.NewVerifier(jwtSvc, revokedTokens)
	authService := auth.NewService(userRepository, revokedTokens, jwtSvc)
	accountService := account.NewService(userRepository)

	interviewService := interview.NewService(interview.NewRepository(pool), log)
	progressService := progress.NewService(progress.NewRepository(pool), log)
	questionService := question.NewService(question.NewRepository(pool), log)

	// ── 8. Realtime Hub ───────────────────────────────────────────────────
	// Joining an interview room requires participating in the interview.
	hub := realtime.NewHub(log, realtime.WithAuthorizer(interviewService))

	// Redis pub/sub relays room events across server processes. With a
	// single process this still works; events loop through Redis once.
	broker := realtime.NewRedisBroker(context.Background(), rdb, log, hub.Deliver)
	hub.SetBroker(broker)
	defer func() {
		if cerr := hub.Close(); cerr != nil {
			log.Error("realtime broker close error", slog.Any("error", cerr))
		}
	}()

	// ── 9. Admission Policies ─────────────────────────────────────────────
	policy := middleware.NewOriginPolicy(cfg)

	// Redis-backed rate windows so every process sees the same counts.
	counter := middleware.NewRedisCounter(rdb)

	// ── 10. HTTP Handlers ─────────────────────────────────────────────────
	health := api.NewHealthHandler(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, cfg.Environment, log)

	handlers := api.Handlers{
		Health:    health,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Interview: interview.NewHandler(interviewService),
		Progress:  progress.NewHandler(progressService),
		Question:  question.NewHandler(questionService),
		AI:        ai.NewHandler(ai.Unconfigured{}, ai.Unconfigured{}),
		Execution: execution.NewHandler(execution.Unconfigured{}),
		Realtime:  realtime.NewHandler(hub, verifier, policy),
	}

	server := api.NewServer(cfg, log, verifier, policy, counter, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error (including a port already in use).
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
		os.Exit(1)
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
