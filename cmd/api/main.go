// Copyright (c) 2026 Vidora. All rights reserved.

// Command api is the entrypoint of the Vidora user-account API server.
//
// It is the composition root: every infrastructure client (PostgreSQL,
// Redis, object storage, token service) is constructed here and injected
// downward. Nothing below this file reaches for globals.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vidora/vidora/internal/api"
	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/config"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/migration"
	"github.com/vidora/vidora/internal/platform/postgres"
	platformredis "github.com/vidora/vidora/internal/platform/redis"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/internal/users/channel"
	"github.com/vidora/vidora/internal/users/profile"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// run wires the full application and blocks until shutdown.
func run() error {
	// Shutdown on SIGINT/SIGTERM propagates through this context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// # Configuration & Logging

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting",
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
		slog.String("environment", cfg.Environment),
	)

	// # Infrastructure

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := platformredis.NewClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	tokens, err := sec.NewTokenService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		constants.AuthIssuer,
	)
	if err != nil {
		return err
	}

	storage, err := media.NewS3Storage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// # Domain Wiring

	userRepository := auth.NewPostgresUserRepository(pool)
	subscriptionRepository := channel.NewPostgresSubscriptionRepository(pool)
	countsCache := channel.NewRedisCountsCache(redisClient, logger)

	sessionService := auth.NewService(userRepository, tokens, storage, logger)
	profileService := profile.NewService(userRepository, storage, logger)
	channelService := channel.NewService(userRepository, subscriptionRepository, countsCache, logger)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return postgres.Ping(ctx, pool) },
		CheckCache:    func() error { return platformredis.Ping(ctx, redisClient) },
	}, logger)

	server := api.NewServer(cfg, logger, tokens, userRepository, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(sessionService, cfg.UploadTempDir, cfg.IsProduction()),
		Profile:   profile.NewHandler(profileService, cfg.UploadTempDir),
		Channel:   channel.NewHandler(channelService),
	})

	// # Serve & Shutdown

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

// newLogger builds the process logger: human-readable text in development,
// JSON for log aggregation everywhere else.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
