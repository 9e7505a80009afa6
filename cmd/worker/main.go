package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"webappmanager/internal/app"
	"webappmanager/internal/cache"
	"webappmanager/internal/config"
	"webappmanager/internal/database"
	"webappmanager/internal/log"
	"webappmanager/internal/queue"
	"webappmanager/internal/repository"
	"webappmanager/internal/storage"
	"webappmanager/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	app.Configure(cfg)

	logger := log.New(cfg.Environment, cfg.Logging.Level).With().Str("component", "worker").Logger()
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("worker exited")
	}
	logger.Info().Msg("worker stopped")
}

func run(cfg *config.AppConfig, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres, "webapp-worker")
	if err != nil {
		return err
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, "webapp-worker")
	if err != nil {
		return err
	}
	defer redisClient.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		return err
	}

	processor := tasks.NewProcessor(
		repository.NewImageRepository(dbPool),
		objectStore,
		cfg.Worker.CleanupBatch,
		logger,
	)
	consumer := queue.NewConsumer(
		redisClient,
		cfg.Worker.Stream,
		cfg.Worker.Group,
		cfg.Worker.Consumer,
		cfg.Worker.ClaimInterval,
		logger,
		processor,
	).WithMaxDeliveries(cfg.Worker.MaxDeliveries)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Start(gctx)
	})

	logger.Info().Str("stream", cfg.Worker.Stream).Str("consumer", cfg.Worker.Consumer).Msg("worker started")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
