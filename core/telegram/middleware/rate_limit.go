package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/buylist/core/logger"
	tghelpers "github.com/m3rciful/buylist/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
// Exclude holds UpdateKind values that bypass the limit.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// limiter remembers when each sender last got through.
type limiter struct {
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	seen      map[int64]time.Time
	lastPrune time.Time
}

func newLimiter(interval time.Duration) *limiter {
	return &limiter{interval: interval, now: time.Now, seen: make(map[int64]time.Time)}
}

// allow records a pass for userID unless the previous one is too recent.
func (l *limiter) allow(userID int64) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > 10*l.interval {
		for id, t := range l.seen {
			if now.Sub(t) >= l.interval {
				delete(l.seen, id)
			}
		}
		l.lastPrune = now
	}
	if last, ok := l.seen[userID]; ok && now.Sub(last) < l.interval {
		return false
	}
	l.seen[userID] = now
	return true
}

// RateLimitMiddleware lets each sender through at most once per Interval.
// Throttled updates are logged and passed to OnLimited instead of the handler.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	lim := newLimiter(opts.Interval)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := tghelpers.SenderID(c)
			if userID == 0 || opts.Interval <= 0 {
				return next(c)
			}
			kind := UpdateKind(c.Update())
			if _, skip := opts.Exclude[kind]; skip || lim.allow(userID) {
				return next(c)
			}
			logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelWarn, "tg.rate_limit",
				slog.String("status", "rate_limited"),
				slog.Int64("user_id", userID),
				slog.String("update", kind),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}

// UpdateKind names the update type as used in rate_limit.exclude_updates.
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}
