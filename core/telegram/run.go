package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/buylist/core/config"
	"github.com/m3rciful/buylist/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry
	// Client defaults to BuildHTTPClient with telegram.http settings.
	Client *http.Client

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot      *tele.Bot
	Registry *Registry
}

// Wire registers middlewares and routes on bot in declaration order.
// Entries without a handler are skipped.
func Wire(bot *tele.Bot, middlewares []Middleware, routes []Route) {
	for _, mw := range middlewares {
		if mw.Use == nil {
			continue
		}
		bot.Use(mw.Use)
	}
	for _, route := range routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}
}

// RunTelegram composes and runs a Telegram bot until the provided context is done.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}

	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}
	client := opts.Client
	if client == nil {
		client = BuildHTTPClient(HTTPOptionsFrom(cfg.Telegram.HTTP))
	}

	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	buildStart := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
		Client: client,
		OnError: func(err error, c tele.Context) {
			logger.LogEvent(ctx, logger.TG, slog.LevelError, "tg.error",
				slog.String("status", "fail"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		},
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	buildTook := time.Since(buildStart)

	rt := Runtime{Bot: bot, Registry: reg}

	switch p := poller.(type) {
	case *tele.Webhook:
		logger.LogEvent(ctx, logger.TG, slog.LevelInfo, "tg.mode",
			slog.String("mode", "webhook"),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.Duration("duration", buildTook),
		)
	default:
		logger.LogEvent(ctx, logger.TG, slog.LevelInfo, "tg.mode",
			slog.String("mode", "polling"),
			slog.Int("timeout_seconds", longPollTimeout(cfg.Telegram.LongPollTimeoutSeconds)),
			slog.Duration("duration", buildTook),
		)
		if !opts.DisableWebhookCleanup && strings.EqualFold(cfg.Telegram.RunMode, coreconfig.RunModeLongpoll) {
			status, level := "ok", slog.LevelInfo
			var attrs []slog.Attr
			if err := bot.RemoveWebhook(false); err != nil {
				status, level = "fail", slog.LevelWarn
				attrs = append(attrs, slog.String("err", err.Error()))
			}
			attrs = append([]slog.Attr{slog.String("status", status), slog.String("mode", "polling")}, attrs...)
			logger.LogEvent(ctx, logger.TG, level, "tg.delete_webhook", attrs...)
		}
	}

	Wire(bot, opts.Middlewares, opts.Routes)
	InitBotCommands(bot, reg)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	if opts.OnStop != nil {
		// ctx is already done here; hooks get a fresh one with a deadline.
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := opts.OnStop(stopCtx, rt); err != nil {
			return err
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
