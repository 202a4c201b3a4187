// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Roots HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL, Redis and the object store.
//  4. Run database migrations (idempotent).
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

	"github.com/taibuivan/roots/internal/api"
	"github.com/taibuivan/roots/internal/genealogy/media"
	"github.com/taibuivan/roots/internal/genealogy/person"
	"github.com/taibuivan/roots/internal/genealogy/proposal"
	"github.com/taibuivan/roots/internal/genealogy/relationship"
	"github.com/taibuivan/roots/internal/genealogy/search"
	"github.com/taibuivan/roots/internal/genealogy/section"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/config"
	"github.com/taibuivan/roots/internal/platform/constants"
	"github.com/taibuivan/roots/internal/platform/migration"
	pgstore "github.com/taibuivan/roots/internal/platform/postgres"
	redisstore "github.com/taibuivan/roots/internal/platform/redis"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/storage"
	"github.com/taibuivan/roots/internal/users/account"
	"github.com/taibuivan/roots/internal/users/auth"
	"github.com/taibuivan/roots/internal/users/invitation"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

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
		slog.Bool("google_enabled", cfg.GoogleEnabled()),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Backing Services ───────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, pgstore.PoolOptions{
		DSN:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, redisstore.ClientOptions{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	blobs, err := storage.NewClient(storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
	})
	must(log, err, "configure object storage")
	must(log, blobs.EnsureBucket(startupCtx), "prepare storage bucket")

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	tokens, err := sec.NewTokenService(cfg.JWTSecretKey, constants.AuthIssuer)
	must(log, err, "initialize token service")

	txManager := pgstore.NewTxManager(pool)

	// ── 5. Genealogy Domain ───────────────────────────────────────────────
	personRepository := person.NewPostgresRepository(pool)
	personGateway := person.NewProposalGateway(personRepository)

	treeService := tree.NewService(tree.NewPostgresRepository(pool))
	relationshipService := relationship.NewService(relationship.NewPostgresRepository(pool), treeService, txManager)
	proposalService := proposal.NewService(proposal.NewPostgresRepository(pool), personGateway, treeService, txManager)
	personService := person.NewService(personRepository, treeService, proposalService, blobs, txManager)
	mediaService := media.NewService(media.NewPostgresRepository(pool), personService, blobs)
	sectionService := section.NewService(section.NewPostgresRepository(pool), personService)
	searchService := search.NewService(personRepository, treeService)

	// ── 6. Users Domain ───────────────────────────────────────────────────
	invitationService := invitation.NewService(invitation.NewPostgresRepository(pool), personGateway)

	var google auth.OAuthProvider
	if cfg.GoogleEnabled() {
		google = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL())
	}

	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewSessionStore(rdb),
		auth.NewAttemptCounter(rdb),
		tokens,
		invitationService,
		txManager,
		google,
		auth.Options{
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			AttemptLimit:    cfg.AuthRateLimitMax,
			AttemptWindow:   cfg.AuthRateLimitWindow,
		},
	)
	accountService := account.NewService(account.NewPostgresRepository(pool))

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers([]api.Check{
		{Name: "postgres", Probe: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		{Name: "redis", Probe: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
		{Name: "storage", Probe: blobs.Ping},
	}, log)

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log,
		api.Security{Verifier: tokens, Resolver: authService},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Auth:      auth.NewHandler(authService, auth.CookieOptions{Secure: cfg.IsProduction(), FrontendURL: cfg.FrontendURL}),
			Admin:     account.NewHandler(accountService),
			Domains: []api.RouteRegistrar{
				tree.NewHandler(treeService),
				person.NewHandler(personService),
				relationship.NewHandler(relationshipService),
				proposal.NewHandler(proposalService),
				media.NewHandler(mediaService),
				section.NewHandler(sectionService),
				search.NewHandler(searchService),
				invitation.NewHandler(invitationService),
			},
		},
	)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the app name and makes it the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "roots"))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// It is limited to startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
