package middleware

import (
	"testing"
	"time"

	"github.com/m3rciful/buylist/core/telegram/tgtest"

	tele "gopkg.in/telebot.v4"
)

func TestAccessOptionsPermits(t *testing.T) {
	allow := map[int64]bool{10: true}
	opts := AccessOptions{AdminID: 1, Allowed: func(id int64) bool { return allow[id] }}
	cases := map[int64]bool{1: true, 10: true, 11: false, 0: false}
	for id, want := range cases {
		if got := opts.Permits(id); got != want {
			t.Fatalf("Permits(%d) = %v, want %v", id, got, want)
		}
	}
	if !(AccessOptions{}).Permits(42) {
		t.Fatal("unconfigured access should permit everyone")
	}
	adminOnly := AccessOptions{AdminID: 1}
	if adminOnly.Permits(10) || !adminOnly.Permits(1) {
		t.Fatal("admin-only access mismatch")
	}
}

func TestAccessMiddlewareReadsAllowListPerUpdate(t *testing.T) {
	bot, _ := tgtest.NewBot(t)
	allowed := map[int64]bool{}
	var handled, rejected int
	mw := AccessMiddleware(AccessOptions{
		Allowed:  func(id int64) bool { return allowed[id] },
		OnReject: func(tele.Context) error { rejected++; return nil },
	})
	h := mw(func(tele.Context) error { handled++; return nil })

	c := bot.NewContext(tgtest.TextUpdate(1, 7, "/list"))
	if err := h(c); err != nil {
		t.Fatal(err)
	}
	allowed[7] = true
	if err := h(bot.NewContext(tgtest.TextUpdate(2, 7, "/list"))); err != nil {
		t.Fatal(err)
	}
	if handled != 1 || rejected != 1 {
		t.Fatalf("handled=%d rejected=%d", handled, rejected)
	}
}

func TestRecoverMiddlewareReturnsError(t *testing.T) {
	bot, _ := tgtest.NewBot(t)
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	if err := h(bot.NewContext(tgtest.TextUpdate(1, 7, "x"))); err == nil {
		t.Fatal("expected error from recovered panic")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	bot, _ := tgtest.NewBot(t)
	var handled, limited int
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  10 * time.Second,
		Exclude:   map[string]struct{}{"callback": {}},
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	h := mw(func(tele.Context) error { handled++; return nil })

	_ = h(bot.NewContext(tgtest.TextUpdate(1, 7, "a")))
	_ = h(bot.NewContext(tgtest.TextUpdate(2, 7, "b")))
	_ = h(bot.NewContext(tgtest.TextUpdate(3, 8, "c")))
	_ = h(bot.NewContext(tgtest.CallbackUpdate(4, 7, "activate", "full_list|0|0")))
	if handled != 3 || limited != 1 {
		t.Fatalf("handled=%d limited=%d", handled, limited)
	}
}

func TestMessageMetricsCounts(t *testing.T) {
	bot, srv := tgtest.NewBot(t)
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		if err := c.Send("one"); err != nil {
			return err
		}
		return c.Send("two", &tele.ReplyMarkup{ResizeKeyboard: true})
	})
	c := bot.NewContext(tgtest.TextUpdate(1, 7, "x"))
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	msgs, kb := GetCounters(c)
	if msgs != 2 || !kb {
		t.Fatalf("counters = %d %v", msgs, kb)
	}
	if n := len(srv.Calls()); n != 2 {
		t.Fatalf("api calls = %d", n)
	}
}

func TestCountersWithoutMiddleware(t *testing.T) {
	bot, _ := tgtest.NewBot(t)
	if msgs, kb := GetCounters(bot.NewContext(tgtest.TextUpdate(1, 7, "x"))); msgs != 0 || kb {
		t.Fatalf("counters = %d %v", msgs, kb)
	}
}

func TestLimiterPrunesStaleSenders(t *testing.T) {
	now := time.Unix(1000, 0)
	lim := newLimiter(time.Second)
	lim.now = func() time.Time { return now }

	if !lim.allow(1) || lim.allow(1) {
		t.Fatal("second pass inside the interval should be refused")
	}
	now = now.Add(2 * time.Second)
	if !lim.allow(2) {
		t.Fatal("new sender should pass")
	}
	now = now.Add(20 * time.Second)
	if !lim.allow(1) {
		t.Fatal("sender should pass after the interval")
	}
	if len(lim.seen) != 1 {
		t.Fatalf("stale entries kept: %v", lim.seen)
	}
}

func TestRecoverAnswersCallback(t *testing.T) {
	bot, srv := tgtest.NewBot(t)
	h := RecoverMiddleware(func(tele.Context) error { panic("slot out of range") })
	err := h(bot.NewContext(tgtest.CallbackUpdate(1, 7, "activate", "full_list|99|0")))
	if err == nil || err.Error() != "panic: slot out of range" {
		t.Fatalf("err = %v", err)
	}
	if _, ok := srv.Last("answerCallbackQuery"); !ok {
		t.Fatalf("calls = %v", srv.Methods())
	}
}
