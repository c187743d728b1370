// Copyright (c) 2026 ContactFlow. All rights reserved.

// Command api is the entry point for the ContactFlow HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire token service, domains, and the access guard.
//  7. Start the session purge scheduler.
//  8. Start HTTP server with graceful shutdown.
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
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Vogit1234/contact-flow-v2/internal/access"
	"github.com/Vogit1234/contact-flow-v2/internal/api"
	"github.com/Vogit1234/contact-flow-v2/internal/contacts"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/config"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/constants"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/migration"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/origin"
	pgstore "github.com/Vogit1234/contact-flow-v2/internal/platform/postgres"
	redisstore "github.com/Vogit1234/contact-flow-v2/internal/platform/redis"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/sec"
	"github.com/Vogit1234/contact-flow-v2/internal/settings"
	"github.com/Vogit1234/contact-flow-v2/internal/users/account"
	"github.com/Vogit1234/contact-flow-v2/internal/users/auth"
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

	log.Info("[ContactFlow] service_initializing")

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

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	authService := auth.NewService(userRepository, sessionRepository, jwtSvc)
	authHandler := auth.NewHandler(authService)

	accountService := account.NewService(userRepository, sessionRepository, log)
	accountHandler := account.NewHandler(accountService)

	settingsStore := settings.NewStore(pool)
	settingsCache := settings.NewCache(rdb)
	settingsService := settings.NewService(settingsStore, settingsCache, log)

	// Remote origin providers: public defaults, overridable via environment.
	remoteProviders := origin.HTTPProviders(http.DefaultClient)
	if cfg.OriginProviders != "" {
		urls := strings.Split(cfg.OriginProviders, ",")
		remoteProviders = origin.CustomHTTPProviders(http.DefaultClient, urls)
	}
	settingsHandler := settings.NewHandler(settingsService, remoteProviders)

	contactRepository := contacts.NewPostgresRepository(pool)
	contactService := contacts.NewService(contactRepository, log)
	contactHandler := contacts.NewHandler(contactService)

	guard := access.NewGuard(
		userRepository,
		sessionRepository,
		settingsService,
		access.NewResolver(log),
		remoteProviders,
		log,
	)

	// ── 9. Session Purge Scheduler ────────────────────────────────────────
	scheduler := cron.New()
	_, err = scheduler.AddFunc(constants.SessionPurgeSchedule, func() {
		purgeCtx, purgeCancel := context.WithTimeout(context.Background(), time.Minute)
		defer purgeCancel()

		if err := authService.PurgeExpiredSessions(purgeCtx); err != nil {
			log.Error("session_purge_failed", slog.Any("error", err))
		}
	})
	must(log, err, "schedule session purge")
	scheduler.Start()
	defer scheduler.Stop()

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Contacts:  contactHandler,
		Account:   accountHandler,
		Settings:  settingsHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, guard, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
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
