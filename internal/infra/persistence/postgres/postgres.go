// Package postgres contains the concrete implementation of the identity
// persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"log/slog"

	"warden/config"
	"warden/internal/domain/lifecycle"
	"warden/internal/errors"

	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Open dials PostgreSQL and returns a configured *gorm.DB. It is usable
// outside the fx graph (the audit dump uses it directly).
func Open(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.Postgres == nil {
		return nil, errors.New("postgres configuration is missing")
	}

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), &gorm.Config{
		// Repositories run multi-step writes through txManager.Execute;
		// GORM's per-statement implicit transaction is redundant.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(logger, cfg),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	if cfg.Postgres.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	}
	if cfg.Postgres.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	}
	if cfg.Postgres.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	}

	return db, nil
}

// New creates the PostgreSQL client and ties it to the fx lifecycle:
// ping on start, close on stop.
func New(params Params) (*gorm.DB, error) {
	db, err := Open(params.Config, params.Logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}
