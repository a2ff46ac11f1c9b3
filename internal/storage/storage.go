// Package storage opens the record stores selected by STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskchat/internal/config"
	pgInfra "github.com/fastygo/taskchat/internal/infrastructure/postgres"
	"github.com/fastygo/taskchat/repository"
	"github.com/fastygo/taskchat/repository/bolt"
	"github.com/fastygo/taskchat/repository/postgres"
	"github.com/fastygo/taskchat/repository/sqlite"
)

// Open connects to the configured driver. Postgres migrations run first when enabled.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		return postgres.NewStore(pool), nil

	case config.DriverBolt:
		db, err := bolt.Open(cfg.Storage.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		logger.Info("opened bolt store", zap.String("path", cfg.Storage.BoltPath))
		return db.Store(), nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.Storage.SQLitePath))
		return sqlite.NewStore(db), nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
