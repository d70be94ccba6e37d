package router

import (
	"log/slog"

	tg "github.com/m3rciful/buylist/core/telegram"
	"github.com/m3rciful/buylist/core/telegram/callbacks"
	"github.com/m3rciful/buylist/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
// NotFound overrides the registry fallback for unknown keys.
// Access, when set, wraps every callback handler including the fallback.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
	Access   tele.MiddlewareFunc
}

// CallbackRoute returns a handler that routes callbacks through the registry.
// The callback query is answered after the handler unless it answered itself.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		defer func() { _ = callbacks.Answer(c, "") }()

		key, _ := callbacks.ParseCallbackData(c.Callback())
		sum := newSummary(c, "callback."+handlerName(key), slog.String("cb_key", key))

		cbHandler, ok := reg.GetCallback(key)
		if !ok {
			cbHandler = cmpHandler(opts.NotFound, reg.CallbackNotFound())
			sum.extras = append(sum.extras, slog.String("cause", "not_found"))
		}
		if cbHandler == nil {
			sum.skip(c)
			return nil
		}
		if opts.Access != nil {
			cbHandler = opts.Access(cbHandler)
		}
		return sum.run(c, cbHandler)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// cmpHandler returns the first non-nil handler.
func cmpHandler(hs ...tele.HandlerFunc) tele.HandlerFunc {
	for _, h := range hs {
		if h != nil {
			return h
		}
	}
	return nil
}
