package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/buylist/core/config"
	"github.com/m3rciful/buylist/internal/config"
)

func noLogger(*coreconfig.Config) error { return nil }

func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	items := filepath.Join(dir, "items.list")
	users := filepath.Join(dir, "users.list")
	if err := os.WriteFile(items, []byte("milk\nbread\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(users, []byte("42\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	cfg.Telegram.Token = "TEST"
	cfg.Source.Driver = config.SourceFile
	cfg.Source.File = config.FileSourceConfig{ItemsPath: items, UsersPath: users}
	cfg.List.PageSize = 10
	return cfg
}

func TestBootstrapFileSource(t *testing.T) {
	a, err := Bootstrap(context.Background(), fileConfig(t), Options{LoggerInit: noLogger})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	if a.List().Len() != 2 || !a.List().IsAuthorized(42) {
		t.Fatalf("items = %+v users = %v", a.List().Items(), a.List().AuthorizedUsers())
	}
	opts, err := a.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}
	if opts.Registry == nil || len(opts.Registry.Commands()) != 4 {
		t.Fatalf("commands = %v", opts.Registry.Commands())
	}
	if len(opts.Registry.ListCallbacks()) != 4 {
		t.Fatalf("callbacks = %v", opts.Registry.ListCallbacks())
	}
	// four commands, one text route and the callback route
	if len(opts.Routes) != 6 {
		t.Fatalf("routes = %d", len(opts.Routes))
	}
	for _, mw := range opts.Middlewares {
		if mw.Name == "prometheus" {
			t.Fatal("metrics middleware without metrics.listen")
		}
	}
	if opts.OnStart != nil {
		t.Fatal("OnStart should be unset without metrics")
	}
}

func TestBootstrapWithMetrics(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Metrics.Listen = "127.0.0.1:0"
	a, err := Bootstrap(context.Background(), cfg, Options{LoggerInit: noLogger})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()
	opts, _ := a.TelegramRunOptions()
	last := opts.Middlewares[len(opts.Middlewares)-1]
	if last.Name != "prometheus" || opts.OnStart == nil {
		t.Fatalf("middlewares = %+v", opts.Middlewares)
	}
	families, err := a.gatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "buylist_items" {
			found = true
		}
	}
	if !found {
		t.Fatal("buylist_items not exported")
	}
}

func TestBootstrapSourceFailure(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Source.File.UsersPath = filepath.Join(t.TempDir(), "missing.list")
	if _, err := Bootstrap(context.Background(), cfg, Options{LoggerInit: noLogger}); err == nil {
		t.Fatal("expected initial read failure")
	}
	if _, err := Bootstrap(context.Background(), nil, Options{}); err == nil {
		t.Fatal("expected nil config failure")
	}
}
