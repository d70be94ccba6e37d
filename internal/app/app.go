// Package app assembles the buylist bot from its configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/m3rciful/buylist/core/bootstrap"
	coreconfig "github.com/m3rciful/buylist/core/config"
	"github.com/m3rciful/buylist/core/logger"
	tg "github.com/m3rciful/buylist/core/telegram"
	"github.com/m3rciful/buylist/internal/bot"
	"github.com/m3rciful/buylist/internal/config"
	"github.com/m3rciful/buylist/internal/metrics"
	"github.com/m3rciful/buylist/internal/shoplist"
	"github.com/m3rciful/buylist/internal/source"
)

// Options tune Bootstrap.
type Options struct {
	Seeders    []bootstrap.Seeder
	LoggerInit func(*coreconfig.Config) error
}

// App owns the registry, the Telegram handlers and the infrastructure behind them.
type App struct {
	cfg      *config.Config
	infra    *bootstrap.Result
	list     *shoplist.Registry
	registry *tg.Registry
	handlers *bot.Handlers

	metrics  *metrics.Observer
	gatherer *prometheus.Registry
}

// Bootstrap initialises logging and the database, opens the source and
// performs the initial read.
func Bootstrap(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	infra, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:     &cfg.Config,
		Database:   cfg.Database,
		Seeders:    opts.Seeders,
		LoggerInit: opts.LoggerInit,
	})
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, infra: infra}
	observers := shoplist.Observers{shoplist.LogObserver{}}
	if cfg.Metrics.Listen != "" {
		a.gatherer = prometheus.NewRegistry()
		a.gatherer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.metrics = metrics.NewObserver(a.gatherer)
		observers = append(observers, a.metrics)
	}

	src, err := source.Open(ctx, cfg, infra.DB)
	if err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("app: open source: %w", err)
	}
	a.list, err = shoplist.New(ctx, src,
		shoplist.WithPageSize(cfg.List.PageSize),
		shoplist.WithObserver(observers),
	)
	if err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("app: initial read: %w", err)
	}

	a.registry = tg.NewRegistry()
	a.handlers = bot.New(a.list, bot.Options{AdminID: cfg.Telegram.AdminID})
	if err := a.handlers.Register(a.registry); err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("app: register handlers: %w", err)
	}

	logger.Info(ctx, "app", "app.bootstrap",
		slog.String("status", "ok"),
		slog.String("source", cfg.Source.Driver),
		slog.Int("items_total", a.list.Len()),
		slog.Int("users_total", len(a.list.AuthorizedUsers())),
	)
	return a, nil
}

// List returns the shared registry.
func (a *App) List() *shoplist.Registry { return a.list }

// TelegramRunOptions wires middlewares, routes and the metrics listener.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	chain := tg.ChainOptions{OnLimited: a.handlers.OnLimited}
	if a.metrics != nil {
		chain.Observe = append(chain.Observe, tg.Middleware{Name: "prometheus", Use: a.metrics.Middleware})
	}
	mws := tg.DefaultMiddlewares(&a.cfg.Config, chain)
	opts := tg.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    a.registry,
		Middlewares: mws,
		Routes:      a.handlers.Routes(a.registry),
	}
	if a.gatherer != nil {
		addr := a.cfg.Metrics.Listen
		opts.OnStart = func(ctx context.Context, _ tg.Runtime) error {
			go func() {
				if err := metrics.Serve(ctx, addr, a.gatherer); err != nil {
					logger.Error(ctx, "metrics", "metrics.serve", slog.String("status", "fail"), slog.String("err", err.Error()))
				}
			}()
			return nil
		}
	}
	return opts, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.infra.Close()
}
