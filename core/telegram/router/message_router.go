package router

import (
	tg "github.com/m3rciful/buylist/core/telegram"
	"github.com/m3rciful/buylist/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls fallback behaviour for text updates.
// Access wraps alias matches of non-public commands and the fallbacks.
type TextOptions struct {
	UnknownText tele.HandlerFunc
	Access      tele.MiddlewareFunc
}

// TextRoutes routes plain text to commands by alias, then to the fallbacks.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	guard := func(h tele.HandlerFunc, public bool) tele.HandlerFunc {
		if public || opts.Access == nil {
			return h
		}
		return opts.Access(h)
	}

	handler := func(c tele.Context) error {
		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				return newSummary(c, handlerName(key)).run(c, guard(cmd.Handler, cmd.Public))
			}
			if fb := reg.TextFallback(); fb != nil {
				return newSummary(c, "fallback").run(c, guard(fb, false))
			}
		}
		sum := newSummary(c, "unknown_text")
		if opts.UnknownText == nil {
			sum.skip(c)
			return nil
		}
		return sum.run(c, guard(opts.UnknownText, false))
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
