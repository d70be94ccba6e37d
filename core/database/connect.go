package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/buylist/core/logger"
)

// Connect opens the database connection, configures the pool, and verifies connectivity.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	driver := cfg.DriverName()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	sqlxDB, err := sqlx.ConnectContext(ctx, driver, cfg.DSN())
	took := time.Since(start)
	if err != nil {
		logger.LogEvent(ctx, logger.DB, slog.LevelError, "db.connect",
			slog.String("status", "fail"),
			slog.String("driver", driver),
			slog.String("host", cfg.Host),
			slog.String("db", dbLabel(cfg)),
			slog.Duration("duration", took),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY between pooled connections.
		sqlxDB.SetMaxOpenConns(1)
	} else if cfg.MaxConnections > 0 {
		sqlxDB.SetMaxOpenConns(cfg.MaxConnections)
		sqlxDB.SetMaxIdleConns(cfg.MaxConnections)
	}

	logger.LogEvent(ctx, logger.DB, slog.LevelInfo, "db.connect",
		slog.String("status", "ok"),
		slog.String("driver", driver),
		slog.String("host", cfg.Host),
		slog.String("db", dbLabel(cfg)),
		slog.Int("pool_open", sqlxDB.Stats().MaxOpenConnections),
		slog.Duration("duration", took),
	)
	return sqlxDB, nil
}

func dbLabel(cfg Config) string {
	if cfg.DriverName() == DriverSQLite {
		return cfg.Path
	}
	return cfg.Name
}

// WaitForPostgres tries to connect to the DB until it is ready or timeout is reached.
func WaitForPostgres(ctx context.Context, dsn string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	attempts := 0
	for {
		attempts++
		err := pingOnce(ctx, dsn)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout reached waiting for database after %d attempts: %w", attempts, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func pingOnce(ctx context.Context, dsn string) error {
	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}
