package middleware

import (
	"log/slog"

	"github.com/m3rciful/buylist/core/logger"
	tghelpers "github.com/m3rciful/buylist/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AccessOptions defines who may reach the wrapped handlers.
// AdminID is always allowed; Allowed is consulted for everyone else on every update.
type AccessOptions struct {
	AdminID  int64
	Allowed  func(userID int64) bool
	OnReject tele.HandlerFunc
}

// Permits reports whether userID passes the access check.
func (o AccessOptions) Permits(userID int64) bool {
	if o.AdminID == 0 && o.Allowed == nil {
		return true
	}
	if userID == 0 {
		return false
	}
	if o.AdminID != 0 && userID == o.AdminID {
		return true
	}
	return o.Allowed != nil && o.Allowed(userID)
}

// AccessMiddleware rejects updates from senders that AccessOptions does not permit.
func AccessMiddleware(opts AccessOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := tghelpers.SenderID(c)
			if opts.Permits(userID) {
				return next(c)
			}
			ctx := tghelpers.BuildContext(c)
			logger.LogEvent(ctx, logger.TG, slog.LevelInfo, "tg.access",
				slog.String("status", "denied"),
				slog.Int64("user_id", userID),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}
