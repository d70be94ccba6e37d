package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	DotEnvFile = filepath.Join(dir, "missing.env")
	path := writeFile(t, dir, "config.yaml", `
telegram:
  token: from-yaml
  admin_id: 1
logging:
  level: info
rate_limit:
  interval_ms: 300
  exclude_updates: [" Callback "]
`)
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
	if cfg.Telegram.AdminID != 1 || cfg.RateLimit.IntervalMS != 300 {
		t.Fatalf("yaml values lost: %+v", cfg)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Fatalf("exclude = %v", cfg.RateLimit.ExcludeUpdates)
	}
}

func TestDecodeReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	DotEnvFile = writeFile(t, dir, ".env", "WEBHOOK_PORT=8443\n")
	t.Cleanup(func() { os.Unsetenv("WEBHOOK_PORT") })
	path := writeFile(t, dir, "config.yaml", "telegram:\n  token: x\n")

	var cfg Config
	if err := Decode(path, &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Webhook.Port != 8443 {
		t.Fatalf("port = %d", cfg.Webhook.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	DotEnvFile = filepath.Join(t.TempDir(), "missing.env")
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		err  string
	}{
		{name: "no token", cfg: Config{}, err: "token is required"},
		{name: "polling alias", cfg: Config{Telegram: TelegramConfig{Token: "t", RunMode: "Polling"}}},
		{name: "bad mode", cfg: Config{Telegram: TelegramConfig{Token: "t", RunMode: "push"}}, err: "invalid telegram.run_mode"},
		{name: "webhook without url", cfg: Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}}, err: "webhook.url"},
		{
			name: "webhook ok",
			cfg: Config{
				Telegram: TelegramConfig{Token: "t", RunMode: "webhook"},
				Webhook:  WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0", Port: 8443},
			},
		},
		{name: "negative timeout", cfg: Config{Telegram: TelegramConfig{Token: "t", LongPollTimeoutSeconds: -1}}, err: "longpoll_timeout_seconds"},
		{
			name: "negative retries",
			cfg:  Config{Telegram: TelegramConfig{Token: "t", HTTP: HTTPConfig{RetryAttempts: -1}}},
			err:  "telegram.http",
		},
		{
			name: "bad exclusion",
			cfg:  Config{Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"poll"}}},
			err:  "rate_limit.exclude_updates",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := Normalize(&cfg)
			if tc.err == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.err) {
				t.Fatalf("err = %v, want %q", err, tc.err)
			}
		})
	}
}
