// Copyright (c) 2026 GameShelf. All rights reserved.

// Command api is the entry point for the GameShelf HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis.
//  4. Construct the games store (GitHub-backed, or local filesystem).
//  5. Load the catalogue, falling back to the bundled dataset.
//  6. Wire HTTP handlers.
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

	"github.com/kael/gameshelf/internal/api"
	"github.com/kael/gameshelf/internal/auth"
	"github.com/kael/gameshelf/internal/catalog"
	"github.com/kael/gameshelf/internal/cover"
	"github.com/kael/gameshelf/internal/github"
	"github.com/kael/gameshelf/internal/platform/config"
	"github.com/kael/gameshelf/internal/platform/constants"
	redisstore "github.com/kael/gameshelf/internal/platform/redis"
	"github.com/kael/gameshelf/internal/platform/sec"
	"github.com/kael/gameshelf/internal/syncqueue"
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

	log.Info("[GameShelf] service_initializing")

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
		slog.Bool("github_backed", cfg.HasGitHub()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application context outlives startup; it scopes background goroutines
	// (rate limiter cleanup) and is cancelled on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Games Store ────────────────────────────────────────────────────
	var (
		store    catalog.Store
		ghClient *github.Client
	)
	localStore := catalog.NewLocalStore(cfg.LocalGamesPath, log)

	if cfg.HasGitHub() {
		ghClient = github.NewClient(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubBranch, log)
		store = catalog.NewGitHubStore(ghClient, catalog.NewRedisKeyValue(rdb), cfg.GamesPath, log)
	} else {
		if cfg.IsProduction() {
			must(log, errors.New("github backing is required in production"), "select games store")
		}
		log.Warn("github_not_configured_using_local_store",
			slog.String("path", cfg.LocalGamesPath),
		)
		store = localStore
	}

	// ── 5. Catalogue ──────────────────────────────────────────────────────
	catalogue := catalog.NewCatalogue(log)
	completedCache := catalog.NewCompletedCache(catalogue)
	engine := catalog.NewEngine(catalogue, log)
	gamesService := catalog.NewService(store, catalogue, log)

	if _, err := gamesService.LoadCatalogue(startupCtx); err != nil {
		// LoadCatalogue already fell back to the bundled dataset; anything
		// still failing here is fatal.
		must(log, err, "load catalogue")
	}

	// The sync queue drains any save that was queued before a restart.
	queue := syncqueue.New(gamesService, cfg.SyncQueuePath, log)
	queue.SetAuthenticated(appCtx, true)

	// ── 6. Session Signing ────────────────────────────────────────────────
	signer := sec.NewSessionSigner(cfg.SessionSecret)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	healthDeps := api.HealthDependencies{
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}
	if ghClient != nil {
		healthDeps.CheckRepository = func() error {
			return ghClient.Ping(context.Background())
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(cfg.AdminPasswordHash, signer, constants.DefaultSessionTTL)
	authHandler := auth.NewHandler(authService, cfg.IsProduction())

	gamesHandler := catalog.NewHandler(gamesService, engine, completedCache)

	coverService := cover.NewService(coverRepository(ghClient), cfg.CoverWorkflow, log)
	coverHandler := cover.NewHandler(coverService)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Games:     gamesHandler,
		Cover:     coverHandler,
	}
	if !cfg.IsProduction() {
		handlers.GamesLocal = catalog.NewLocalHandler(localStore)
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, signer, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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

// coverRepository adapts a possibly-nil GitHub client into the cover
// service's repository. Without a backing repository uploads are rejected.
func coverRepository(client *github.Client) cover.Repository {
	if client == nil {
		return unavailableRepository{}
	}
	return client
}

type unavailableRepository struct{}

func (unavailableRepository) PutFile(context.Context, string, string, []byte) error {
	return errors.New("cover upload requires a configured github repository")
}

func (unavailableRepository) DispatchWorkflow(context.Context, string, map[string]string) error {
	return errors.New("cover upload requires a configured github repository")
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
