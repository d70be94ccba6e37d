// Package metrics exports list and update counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/core/telegram/middleware"
	"github.com/m3rciful/buylist/internal/shoplist"
)

const namespace = "buylist"

// Observer implements shoplist.Observer with Prometheus collectors.
type Observer struct {
	refreshTotal    *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	toggleTotal     *prometheus.CounterVec
	items           prometheus.Gauge
	itemsActive     prometheus.Gauge
	users           prometheus.Gauge
	updatesTotal    *prometheus.CounterVec
	messagesTotal   prometheus.Counter
}

// NewObserver registers the collectors on reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		refreshTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Source reads by kind (refresh, reset) and outcome.",
		}, []string{"kind", "outcome"}),
		refreshDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Source read and merge latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		toggleTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toggle_total",
			Help:      "Activate and deactivate calls by outcome.",
		}, []string{"op", "outcome"}),
		items: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Items known after the last successful read.",
		}),
		itemsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_active",
			Help:      "Items currently marked to buy.",
		}),
		users: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "authorized_users",
			Help:      "Authorized users after the last successful read.",
		}),
		updatesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Telegram updates by kind and outcome.",
		}, []string{"kind", "outcome"}),
		messagesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Messages sent or edited by handlers.",
		}),
	}
}

// ObserveRefresh implements shoplist.Observer.
func (o *Observer) ObserveRefresh(_ context.Context, ev shoplist.RefreshEvent) {
	kind := "refresh"
	if ev.Reset {
		kind = "reset"
	}
	o.refreshDuration.WithLabelValues(kind).Observe(ev.Duration.Seconds())
	if ev.Err != nil {
		o.refreshTotal.WithLabelValues(kind, "error").Inc()
		return
	}
	o.refreshTotal.WithLabelValues(kind, "ok").Inc()
	o.items.Set(float64(ev.Total))
	o.itemsActive.Set(float64(ev.Active))
	o.users.Set(float64(ev.Users))
}

// ObserveToggle implements shoplist.Observer.
func (o *Observer) ObserveToggle(_ context.Context, ev shoplist.ToggleEvent) {
	if !ev.Found {
		o.toggleTotal.WithLabelValues(ev.Op, "unknown_item").Inc()
		return
	}
	o.toggleTotal.WithLabelValues(ev.Op, "ok").Inc()
	o.itemsActive.Set(float64(ev.Active))
}

// Middleware counts updates and the messages their handlers produced.
// It must run inside middleware.MessageMetricsMiddleware to see the counters.
func (o *Observer) Middleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		err := next(c)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		o.updatesTotal.WithLabelValues(middleware.UpdateKind(c.Update()), outcome).Inc()
		if msgs, _ := middleware.GetCounters(c); msgs > 0 {
			o.messagesTotal.Add(float64(msgs))
		}
		return err
	}
}

// Handler serves the gatherer in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info(ctx, "metrics", "metrics.listen", slog.String("status", "ok"), slog.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error(ctx, "metrics", "metrics.listen", slog.String("status", "fail"), slog.String("err", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
