package shoplist

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/buylist/core/logger"
)

// RefreshEvent describes one Refresh or ResetAll call.
type RefreshEvent struct {
	Reset    bool
	Kept     int
	Added    int
	Dropped  int
	Total    int
	Active   int
	Users    int
	Duration time.Duration
	Err      error
}

// ToggleEvent describes one Activate or Deactivate call.
type ToggleEvent struct {
	Op     string
	Name   string
	Found  bool
	Total  int
	Active int
}

// Observer receives tracing hooks from the registry mutators.
// Hooks run after the registry lock is released.
type Observer interface {
	ObserveRefresh(ctx context.Context, ev RefreshEvent)
	ObserveToggle(ctx context.Context, ev ToggleEvent)
}

type nopObserver struct{}

func (nopObserver) ObserveRefresh(context.Context, RefreshEvent) {}
func (nopObserver) ObserveToggle(context.Context, ToggleEvent) {}

// Observers fans every hook out to each non-nil observer in order.
type Observers []Observer

// ObserveRefresh implements Observer.
func (o Observers) ObserveRefresh(ctx context.Context, ev RefreshEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveRefresh(ctx, ev)
		}
	}
}

// ObserveToggle implements Observer.
func (o Observers) ObserveToggle(ctx context.Context, ev ToggleEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveToggle(ctx, ev)
		}
	}
}

// LogObserver writes registry transitions to the "list" log component.
type LogObserver struct{}

// ObserveRefresh logs list.refresh or list.reset.
func (LogObserver) ObserveRefresh(ctx context.Context, ev RefreshEvent) {
	event := "list.refresh"
	if ev.Reset {
		event = "list.reset"
	}
	if ev.Err != nil {
		logger.Error(ctx, "list", event,
			slog.String("status", "fail"),
			slog.Duration("duration", ev.Duration),
			slog.String("err", logger.SanitizeLimit(ev.Err.Error(), 256)),
			slog.String("err_code", "SOURCE_UNAVAILABLE"),
		)
		return
	}
	logger.Info(ctx, "list", event,
		slog.String("status", "ok"),
		slog.Int("items_total", ev.Total),
		slog.Int("items_active", ev.Active),
		slog.Int("items_added", ev.Added),
		slog.Int("items_dropped", ev.Dropped),
		slog.Int("users_total", ev.Users),
		slog.Duration("duration", ev.Duration),
	)
}

// ObserveToggle logs list.toggle; unknown items are logged at debug level.
func (LogObserver) ObserveToggle(ctx context.Context, ev ToggleEvent) {
	if !ev.Found {
		logger.Debug(ctx, "list", "list.toggle",
			slog.String("status", "skip"),
			slog.String("op", ev.Op),
			slog.String("item", logger.SanitizeLimit(ev.Name, 64)),
			slog.String("cause", "unknown_item"),
		)
		return
	}
	logger.Info(ctx, "list", "list.toggle",
		slog.String("status", "ok"),
		slog.String("op", ev.Op),
		slog.String("item", logger.SanitizeLimit(ev.Name, 64)),
		slog.Int("items_active", ev.Active),
	)
}
