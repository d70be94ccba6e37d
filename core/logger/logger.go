// Package logger is the process-wide structured logger. Every record carries
// a component and an event name; update ids from the context are lifted into
// top-level keys. Until InitLogger runs all helpers are no-ops.
package logger

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/m3rciful/buylist/core/buildinfo"
	coreconfig "github.com/m3rciful/buylist/core/config"
)

var (
	initOnce sync.Once
	closeMu  sync.Mutex
	closed   bool

	out      *asyncWriter
	files    []io.Closer
	levelVar slog.LevelVar

	debugSampler  = newRatioSampler(1, 50)
	traceOverride bool

	// L is the base logger. It stays nil until InitLogger runs.
	L *slog.Logger

	DB    *slog.Logger // db
	TG    *slog.Logger // tg
	MIG   *slog.Logger // db.migrate
	TWire *slog.Logger // tg.wire
	SEED  *slog.Logger // db.seed
	SRC   *slog.Logger // source
)

// settings is the resolved logging section.
type settings struct {
	format     logFormat
	level      slog.Level
	order      []string
	sampleKeep int
	sampleOf   int
	profile    string
	file       string // empty: stdout only
}

func settingsFrom(cfg *coreconfig.Config) settings {
	s := settings{
		format:     formatJSON,
		level:      slog.LevelInfo,
		order:      defaultKeyOrder,
		sampleKeep: 1,
		sampleOf:   50,
	}
	if cfg == nil {
		return s
	}
	lc := cfg.Logging

	s.profile = strings.ToLower(strings.TrimSpace(lc.Profile))
	if s.profile == "" {
		s.profile = "prod"
	}
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		s.format = formatKV
	case "json":
	default:
		if s.profile == "debug" || s.profile == "dev" {
			s.format = formatKV
		}
	}

	switch strings.ToLower(strings.TrimSpace(lc.Level)) {
	case "debug":
		s.level = slog.LevelDebug
	case "warn", "warning":
		s.level = slog.LevelWarn
	case "error":
		s.level = slog.LevelError
	}

	if raw := strings.TrimSpace(lc.KeysOrder); raw != "" && raw != "default" {
		var order []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				order = append(order, k)
			}
		}
		if len(order) > 0 {
			s.order = order
		}
	}

	// "" keeps 1/50, an explicit "0" disables sampling, junk falls back to 1/50.
	if spec := strings.TrimSpace(lc.DebugSample); spec != "" {
		switch keep, of := parseRatioSpec(spec); {
		case keep == 0 && of == 0:
			s.sampleKeep, s.sampleOf = 0, 0
		case keep > 0 && of > 0:
			s.sampleKeep, s.sampleOf = keep, of
		}
	}

	dir, name := strings.TrimSpace(lc.Dir), strings.TrimSpace(lc.BotFile)
	if dir != "" && name != "" {
		s.file = filepath.Join(dir, name)
	}
	return s
}

// InitLogger configures the global logger. Only the first call has an effect.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		s := settingsFrom(cfg)
		levelVar.Set(s.level)
		debugSampler.Set(s.sampleKeep, s.sampleOf)
		traceOverride = isTruthy(os.Getenv("TRACE")) || isTruthy(os.Getenv("LOG_TRACE"))

		sinks := []io.Writer{os.Stdout}
		if f := openFile(s.file); f != nil {
			sinks = append(sinks, f)
			files = append(files, f)
		}
		out = newAsyncWriter(sinks, 64*1024)

		L = slog.New(newStructuredHandler(handlerConfig{
			level:    &levelVar,
			writer:   out,
			format:   s.format,
			keyOrder: s.order,
		}))
		slog.SetDefault(L)

		DB = L.With("component", "db")
		TG = L.With("component", "tg")
		MIG = L.With("component", "db.migrate")
		TWire = L.With("component", "tg.wire")
		SEED = L.With("component", "db.seed")
		SRC = L.With("component", "source")

		L.LogAttrs(context.Background(), slog.LevelInfo, "startup",
			slog.String("component", "app"),
			slog.String("event", "startup"),
			slog.String("go_version", runtime.Version()),
			slog.String("build_version", buildinfo.Version),
			slog.String("build_commit", buildinfo.Commit),
			slog.String("build_time", buildinfo.Date),
			slog.String("cfg_profile", s.profile),
		)
	})
	return nil
}

// openFile opens the optional log file. Failures are reported on stderr and
// the logger continues with stdout only.
func openFile(path string) *os.File {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("logger: create log dir: %v", err)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("logger: open log file: %v", err)
		return nil
	}
	return f
}

// Shutdown flushes buffered output and closes file sinks. Safe to call twice.
func Shutdown() error {
	closeMu.Lock()
	defer closeMu.Unlock()
	if closed {
		return nil
	}
	closed = true

	var errs []error
	if out != nil {
		errs = append(errs, out.Flush(), out.Close())
	}
	for _, f := range files {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

// Background returns context.Background().
func Background() context.Context {
	return context.Background()
}

// LogEvent writes one record with the event attribute first.
// A nil logger falls back to the context logger, then to L.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if logg == nil {
		return
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, level, "", attrs...)
}

// Component returns L scoped to name, or nil before InitLogger.
func Component(name string) *slog.Logger {
	if L == nil {
		return nil
	}
	if name = strings.TrimSpace(name); name == "" {
		return L
	}
	return L.With("component", name)
}

// Event logs under component, falling back to the context logger before InitLogger.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	logg := Component(component)
	if logg == nil {
		if logg = FromContext(ctx); logg != nil && strings.TrimSpace(component) != "" {
			logg = logg.With("component", strings.TrimSpace(component))
		}
	}
	LogEvent(ctx, logg, level, event, attrs...)
}

func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// ShouldSampleDebug reports whether a high-volume debug line should be
// written. TRACE=1 disables sampling.
func ShouldSampleDebug() bool {
	return traceOverride || debugSampler.Allow()
}
