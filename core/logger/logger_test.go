package logger

import (
	"log/slog"
	"path/filepath"
	"slices"
	"testing"

	coreconfig "github.com/m3rciful/buylist/core/config"
)

func TestSettingsDefaults(t *testing.T) {
	s := settingsFrom(nil)
	if s.format != formatJSON || s.level != slog.LevelInfo || s.sampleKeep != 1 || s.sampleOf != 50 || s.file != "" {
		t.Fatalf("defaults = %+v", s)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cases := []struct {
		name  string
		lc    coreconfig.LoggingConfig
		check func(t *testing.T, s settings)
	}{
		{
			name: "dev profile prefers kv",
			lc:   coreconfig.LoggingConfig{Profile: "Dev", Level: "debug"},
			check: func(t *testing.T, s settings) {
				if s.format != formatKV || s.level != slog.LevelDebug || s.profile != "dev" {
					t.Fatalf("settings = %+v", s)
				}
			},
		},
		{
			name: "explicit json wins over profile",
			lc:   coreconfig.LoggingConfig{Profile: "debug", Format: "json", Level: "warning"},
			check: func(t *testing.T, s settings) {
				if s.format != formatJSON || s.level != slog.LevelWarn {
					t.Fatalf("settings = %+v", s)
				}
			},
		},
		{
			name: "custom key order",
			lc:   coreconfig.LoggingConfig{KeysOrder: " event, ts ,,item"},
			check: func(t *testing.T, s settings) {
				if !slices.Equal(s.order, []string{"event", "ts", "item"}) {
					t.Fatalf("order = %v", s.order)
				}
			},
		},
		{
			name: "sampling disabled",
			lc:   coreconfig.LoggingConfig{DebugSample: "0"},
			check: func(t *testing.T, s settings) {
				if s.sampleKeep != 0 || s.sampleOf != 0 {
					t.Fatalf("sample = %d/%d", s.sampleKeep, s.sampleOf)
				}
			},
		},
		{
			name: "bad sample keeps default",
			lc:   coreconfig.LoggingConfig{DebugSample: "0/5"},
			check: func(t *testing.T, s settings) {
				if s.sampleKeep != 1 || s.sampleOf != 50 {
					t.Fatalf("sample = %d/%d", s.sampleKeep, s.sampleOf)
				}
			},
		},
		{
			name: "file sink",
			lc:   coreconfig.LoggingConfig{Dir: "logs", BotFile: "bot.log"},
			check: func(t *testing.T, s settings) {
				if s.file != filepath.Join("logs", "bot.log") {
					t.Fatalf("file = %q", s.file)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, settingsFrom(&coreconfig.Config{Logging: tc.lc}))
		})
	}
}

func TestOpenFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bot.log")
	f := openFile(path)
	if f == nil {
		t.Fatal("expected file")
	}
	f.Close()
	if openFile("") != nil {
		t.Fatal("empty path should not open a file")
	}
}
