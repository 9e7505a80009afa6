package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"webappmanager/internal/app"
	"webappmanager/internal/cache"
	"webappmanager/internal/config"
	"webappmanager/internal/database"
	"webappmanager/internal/handlers"
	"webappmanager/internal/jobs"
	"webappmanager/internal/log"
	"webappmanager/internal/metrics"
	"webappmanager/internal/queue"
	"webappmanager/internal/repository"
	"webappmanager/internal/server"
	"webappmanager/internal/service"
	"webappmanager/internal/session"
	"webappmanager/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	app.Configure(cfg)

	logger := log.New(cfg.Environment, cfg.Logging.Level)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("api exited")
	}
	logger.Info().Msg("server exited cleanly")
}

func run(cfg *config.AppConfig, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres, "webapp-api")
	if err != nil {
		return err
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, "webapp-api")
	if err != nil {
		return err
	}
	defer redisClient.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		return err
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	users := repository.NewUserRepository(dbPool)
	images := repository.NewImageRepository(dbPool)
	producer := queue.NewProducer(redisClient, cfg.Worker.Stream)
	registry := metrics.New()

	var tokens *session.TokenIssuer
	if cfg.Security.JWTSecret != "" {
		tokens = session.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.JWTTTL)
	}

	handlerSet := handlers.NewHandlerSet(handlers.Deps{
		Config:  cfg,
		Log:     logger,
		Codec:   session.NewCodec(cfg.Session.CookieName, cfg.Session.Secret),
		Tokens:  tokens,
		Metrics: registry,
		Auth:    service.NewAuthService(users, cfg.Session.TTL, logger),
		Users:   service.NewUserService(users, producer, logger),
		Uploads: service.NewUploadService(images, objectStore, producer, cfg.Upload, logger),
		Checks: map[string]handlers.HealthCheck{
			"postgres": dbPool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			"storage":  objectStore.Ping,
		},
	})

	httpServer, err := server.NewHTTPServer(cfg, logger, registry, handlerSet)
	if err != nil {
		return err
	}

	scheduler := jobs.NewScheduler(producer, jobs.DefaultCleanupSpec, logger)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
