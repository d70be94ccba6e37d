package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/m3rciful/buylist/internal/shoplist"
)

func TestObserverRefresh(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(reg)
	ctx := context.Background()

	o.ObserveRefresh(ctx, shoplist.RefreshEvent{Total: 5, Active: 2, Users: 3, Duration: 10 * time.Millisecond})
	o.ObserveRefresh(ctx, shoplist.RefreshEvent{Reset: true, Total: 4, Active: 1, Users: 3})
	o.ObserveRefresh(ctx, shoplist.RefreshEvent{Err: errors.New("down")})

	if got := testutil.ToFloat64(o.refreshTotal.WithLabelValues("refresh", "ok")); got != 1 {
		t.Fatalf("refresh ok = %v", got)
	}
	if got := testutil.ToFloat64(o.refreshTotal.WithLabelValues("reset", "ok")); got != 1 {
		t.Fatalf("reset ok = %v", got)
	}
	if got := testutil.ToFloat64(o.refreshTotal.WithLabelValues("refresh", "error")); got != 1 {
		t.Fatalf("refresh error = %v", got)
	}
	// the failed read keeps the gauges from the last good one
	if testutil.ToFloat64(o.items) != 4 || testutil.ToFloat64(o.itemsActive) != 1 || testutil.ToFloat64(o.users) != 3 {
		t.Fatal("gauges do not reflect the last successful read")
	}
	if n := testutil.CollectAndCount(o.refreshDuration); n != 2 {
		t.Fatalf("duration series = %d, want 2", n)
	}
}

func TestObserverToggle(t *testing.T) {
	o := NewObserver(prometheus.NewRegistry())
	ctx := context.Background()
	o.ObserveToggle(ctx, shoplist.ToggleEvent{Op: shoplist.OpActivate, Name: "milk", Found: true, Active: 3})
	o.ObserveToggle(ctx, shoplist.ToggleEvent{Op: shoplist.OpDeactivate, Name: "ghost"})

	if got := testutil.ToFloat64(o.toggleTotal.WithLabelValues("activate", "ok")); got != 1 {
		t.Fatalf("activate ok = %v", got)
	}
	if got := testutil.ToFloat64(o.toggleTotal.WithLabelValues("deactivate", "unknown_item")); got != 1 {
		t.Fatalf("deactivate unknown = %v", got)
	}
	if testutil.ToFloat64(o.itemsActive) != 3 {
		t.Fatal("active gauge not updated")
	}
}

func TestObserverWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewObserver(reg)
	src := shoplist.SourceFunc(func(context.Context) (shoplist.Snapshot, error) {
		return shoplist.Snapshot{Items: []shoplist.Entry{{Name: "milk", Default: true}, {Name: "bread"}}, Users: []int64{42}}, nil
	})
	list, err := shoplist.New(context.Background(), src, shoplist.WithObserver(obs))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	list.Activate(context.Background(), "bread")

	expected := `
# HELP buylist_items_active Items currently marked to buy.
# TYPE buylist_items_active gauge
buylist_items_active 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "buylist_items_active"); err != nil {
		t.Fatalf("gather: %v", err)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(reg)
	o.ObserveRefresh(context.Background(), shoplist.RefreshEvent{Total: 1})

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "buylist_items 1") {
		t.Fatalf("body = %s", body)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", prometheus.NewRegistry()) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
