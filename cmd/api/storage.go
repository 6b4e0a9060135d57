package main

import (
	"context"

	"github.com/samber/oops"
	"go.uber.org/zap"

	"membership-api/internal/config"
	"membership-api/internal/db"
	"membership-api/internal/repository"
)

// storage agrupa el repositorio de cuentas con las operaciones del backend elegido.
type storage struct {
	accounts repository.AccountRepository
	ping     func(ctx context.Context) error
	migrate  func(ctx context.Context) error
	close    func()
}

// openStorage conecta Postgres o SQLite segun DATABASE_URL.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.Driver() {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("driver", "postgres").Wrap(err)
		}
		return &storage{
			accounts: repository.NewPgAccountRepository(pool),
			ping: func(ctx context.Context) error {
				return db.Ping(ctx, pool)
			},
			migrate: func(ctx context.Context) error {
				return db.MigratePostgres(ctx, pool)
			},
			close: pool.Close,
		}, nil
	case "sqlite":
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("driver", "sqlite").Wrap(err)
		}
		logger.Warn("using sqlite storage, intended for local development")
		return &storage{
			accounts: repository.NewSQLiteAccountRepository(conn),
			ping:     conn.PingContext,
			migrate: func(ctx context.Context) error {
				return db.MigrateSQLite(ctx, conn.DB)
			},
			close: func() { _ = conn.Close() },
		}, nil
	}
	return nil, oops.Code("CONFIG_INVALID").With("driver", cfg.Driver()).Errorf("unsupported DATABASE_URL scheme")
}
