package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m3rciful/buylist/core/logger"
)

// RunMigrations applies all up migrations from cfg.MigrationsDir (./migrations by default).
func RunMigrations(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DriverName() == DriverPostgres {
		if err := WaitForPostgres(ctx, cfg.DSN(), 30*time.Second); err != nil {
			logger.LogEvent(ctx, logger.MIG, slog.LevelError, "db.migrate",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
			return fmt.Errorf("database not ready: %w", err)
		}
	}

	migrationsPath, err := resolveMigrationsDir(cfg.MigrationsDir)
	if err != nil {
		return err
	}
	files := listMigrationFiles(migrationsPath)
	preview, truncated := logger.SummarizeStrings(files, 6)
	attrs := []slog.Attr{
		slog.String("path", migrationsPath),
		slog.Int("files_total", len(files)),
	}
	if preview != "" {
		attrs = append(attrs, slog.String("files_preview", preview))
	}
	if truncated {
		attrs = append(attrs, slog.Bool("files_truncated", true))
	}
	logger.LogEvent(ctx, logger.MIG, slog.LevelDebug, "db.migrate.resolve", attrs...)

	m, err := migrate.New("file://"+filepath.ToSlash(migrationsPath), cfg.MigrateURL())
	if err != nil {
		logger.LogEvent(ctx, logger.MIG, slog.LevelError, "db.migrate",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := time.Since(start)

	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.LogEvent(ctx, logger.MIG, slog.LevelError, "db.migrate",
			slog.String("status", "fail"),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", took),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, _, _ := m.Version()
	applied := selectApplied(files, uint64(fromVer), uint64(toVer))
	if len(applied) > 0 {
		previewApplied, _ := logger.SummarizeStrings(applied, 6)
		logger.LogEvent(ctx, logger.MIG, slog.LevelDebug, "db.migrate.apply",
			slog.Int("files_total", len(applied)),
			slog.String("files_preview", previewApplied),
		)
	}

	logger.LogEvent(ctx, logger.MIG, slog.LevelInfo, "db.migrate",
		slog.String("status", "ok"),
		slog.String("driver", cfg.DriverName()),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Int("files", len(applied)),
		slog.Duration("duration", took),
	)
	return nil
}

func resolveMigrationsDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "migrations"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve migrations dir: %w", err)
	}
	return abs, nil
}

func listMigrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".up.sql") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) == 0 {
		return 0
	}
	v, _ := strconv.ParseUint(parts[0], 10, 64)
	return v
}

func selectApplied(files []string, from, to uint64) []string {
	if to <= from {
		return nil
	}
	var out []string
	for _, f := range files {
		v := parseVersion(f)
		if v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
