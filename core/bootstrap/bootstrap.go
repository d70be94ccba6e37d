package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/buylist/core/config"
	coredatabase "github.com/m3rciful/buylist/core/database"
	"github.com/m3rciful/buylist/core/logger"
)

// Options control the bootstrap pipeline. The database steps run only when
// Database names a driver.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config
	Seeders  []Seeder

	LoggerInit func(*coreconfig.Config) error
	Connect    func(context.Context, coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(context.Context, coredatabase.Config) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
// DB is nil when no database is configured.
type Result struct {
	DB *sqlx.DB
}

// Close releases the database handle if one was opened.
func (r *Result) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// Run initializes the logger, then migrates, connects and seeds the database.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if !opts.Database.Enabled() {
		if len(opts.Seeders) > 0 {
			return nil, fmt.Errorf("bootstrap: seeders require a database")
		}
		return &Result{}, nil
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(ctx, opts.Database); err != nil {
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(ctx, opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	for i, s := range opts.Seeders {
		if err := s.Seed(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: seeder %d failed: %w", i, err)
		}
	}
	return &Result{DB: db}, nil
}
