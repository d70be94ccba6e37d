package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/buylist/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware turns a handler panic into an error so the bot keeps
// running. A pending button press is answered so the client stops waiting.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err = fmt.Errorf("panic: %v", r)
			logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelError, "tg.panic",
				slog.String("status", "fail"),
				slog.String("update", UpdateKind(c.Update())),
				slog.String("err", err.Error()),
				slog.String("stack", string(debug.Stack())),
			)
			_ = callbacks.Answer(c, "")
		}()
		return next(c)
	}
}
