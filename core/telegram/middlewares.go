package telegram

import (
	"time"

	coreconfig "github.com/m3rciful/buylist/core/config"
	"github.com/m3rciful/buylist/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// ChainOptions customises DefaultMiddlewares.
type ChainOptions struct {
	// OnLimited runs instead of the handler for throttled updates.
	OnLimited tele.HandlerFunc
	// Observe entries run innermost, after logging and message counting.
	Observe []Middleware
}

// DefaultMiddlewares returns recover, the optional rate limiter, the logger,
// message counters and then opts.Observe, outermost first.
func DefaultMiddlewares(cfg *coreconfig.Config, opts ChainOptions) []Middleware {
	chain := []Middleware{{Name: "recover", Use: middleware.RecoverMiddleware}}
	if rl, ok := rateLimit(cfg, opts.OnLimited); ok {
		chain = append(chain, rl)
	}
	chain = append(chain,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
	return append(chain, opts.Observe...)
}

func rateLimit(cfg *coreconfig.Config, onLimited tele.HandlerFunc) (Middleware, bool) {
	if cfg == nil || cfg.RateLimit.IntervalMS <= 0 {
		return Middleware{}, false
	}
	// Normalize already lower-cased the names.
	exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
	for _, kind := range cfg.RateLimit.ExcludeUpdates {
		exclude[kind] = struct{}{}
	}
	return Middleware{
		Name: "rate_limit",
		Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:   exclude,
			OnLimited: onLimited,
		}),
	}, true
}
