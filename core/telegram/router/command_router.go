package router

import (
	"context"
	"log/slog"

	"github.com/m3rciful/buylist/core/logger"
	tg "github.com/m3rciful/buylist/core/telegram"
	"github.com/m3rciful/buylist/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
// Access wraps every command that is not marked Public.
type CommandRouteOptions struct {
	Access tele.MiddlewareFunc
}

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for cmd, def := range cmds {
		name := handlerName(cmd)
		inner := def.Handler
		if !def.Public && opts.Access != nil {
			inner = opts.Access(inner)
		}
		h := func(c tele.Context) error {
			return newSummary(c, name).run(c, inner)
		}
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(h)),
		})
	}

	logger.LogEvent(context.Background(), logger.TWire, slog.LevelInfo, "tg.wire",
		slog.String("status", "ok"),
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}
