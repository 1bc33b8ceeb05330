package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/foodtracker-migrator/internal/config"
	"github.com/dtroode/foodtracker-migrator/internal/logger"
	"github.com/dtroode/foodtracker-migrator/internal/metrics"
	"github.com/dtroode/foodtracker-migrator/internal/model"
	"github.com/dtroode/foodtracker-migrator/internal/repository/postgres"
	"github.com/dtroode/foodtracker-migrator/internal/repository/sqlite"
	"github.com/dtroode/foodtracker-migrator/internal/service"
	storage "github.com/dtroode/foodtracker-migrator/internal/storage/minio"
)

// Migrator runs or plans a migration for one user.
type Migrator interface {
	Migrate(ctx context.Context, userID int64) (model.Report, error)
	Plan(ctx context.Context, userID int64) (model.Report, error)
}

// Pusher sends collected metrics somewhere.
type Pusher interface {
	Push(ctx context.Context, url, job string) error
}

// Env is everything a command needs to run a migration.
type Env struct {
	Migrator Migrator
	Metrics  Pusher
	Config   *config.Config
	Logger   *logger.Logger

	closers []func() error
}

// Close releases the resources of e in reverse order of acquisition.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Opener builds an Env.
type Opener func(ctx context.Context) (*Env, error)

// Open wires the migration from environment configuration.
func Open(ctx context.Context) (*Env, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(cfg.LogLevel)
	env := &Env{Config: cfg, Logger: log}

	source, err := postgres.NewConnection(ctx, cfg.Source.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to source: %w", err)
	}
	env.closers = append(env.closers, source.Close)

	target, err := sqlite.NewConnection(ctx, cfg.Target.Path)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("failed to open target: %w", err)
	}
	env.closers = append(env.closers, target.Close)

	collector := metrics.New()
	env.Metrics = collector

	opts := service.MigrationOptions{
		Roster:     model.NewRoster(cfg.Migration.Roster...),
		BaseOffset: cfg.Migration.BaseOffset,
		Metrics:    collector,
	}

	if cfg.Archive.Enabled {
		client, err := storage.Dial(ctx, storage.Options{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			_ = env.Close()
			return nil, fmt.Errorf("failed to initialize snapshot storage: %w", err)
		}

		archiver, err := service.NewArchiver(client, log)
		if err != nil {
			_ = env.Close()
			return nil, err
		}
		env.closers = append(env.closers, archiver.Close)
		opts.Archive = archiver
	}

	env.Migrator = service.NewMigration(
		postgres.NewSourceRepository(source),
		sqlite.NewTargetRepository(target),
		log,
		opts,
	)

	return env, nil
}
