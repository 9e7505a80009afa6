package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"webappmanager/internal/config"
	"webappmanager/internal/database"
	"webappmanager/internal/log"
	"webappmanager/internal/repository"
	"webappmanager/internal/service"
)

// backend is what the commands operate on.
type backend struct {
	migrate func(ctx context.Context) error
	users   *service.UserService
	close   func()
}

type opener func(ctx context.Context, cfg *config.AppConfig) (*backend, error)

func openBackend(ctx context.Context, cfg *config.AppConfig) (*backend, error) {
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, "managerctl")
	if err != nil {
		return nil, err
	}
	return &backend{
		migrate: func(ctx context.Context) error { return database.Migrate(ctx, pool) },
		users:   service.NewUserService(repository.NewUserRepository(pool), nil, zerolog.Nop()),
		close:   pool.Close,
	}, nil
}

func newRootCmd(open opener) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "managerctl",
		Short:         "Operate a WebApp Manager deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml)")

	withBackend := func(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error {
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return err
		}
		logger := log.NewWithWriter(cmd.ErrOrStderr(), cfg.Environment, cfg.Logging.Level)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		b, err := open(ctx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("connect failed")
			return err
		}
		defer b.close()
		return fn(ctx, b)
	}

	root.AddCommand(newMigrateCmd(withBackend), newUserCmd(withBackend))
	return root
}

type runner func(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error
