package helpers

import (
	"context"

	"github.com/m3rciful/buylist/core/logger"

	tele "gopkg.in/telebot.v4"
)

const (
	keyContext = "buylist.ctx"
	keyRID     = "rid"
)

// IDs returns the update, sender and chat identifiers; missing parts are zero.
func IDs(c tele.Context) (updateID int, userID, chatID int64) {
	if c == nil {
		return 0, 0, 0
	}
	updateID = c.Update().ID
	if u := c.Sender(); u != nil {
		userID = u.ID
	}
	if ch := c.Chat(); ch != nil {
		chatID = ch.ID
	}
	return updateID, userID, chatID
}

// SenderID is the id of the user behind the update, or 0.
func SenderID(c tele.Context) int64 {
	_, userID, _ := IDs(c)
	return userID
}

// Begin creates the per-update context, assigns the rid and stores both on c.
// Later calls to BuildContext return the stored value.
func Begin(c tele.Context) context.Context {
	updateID, userID, chatID := IDs(c)
	rid := logger.BuildRID(updateID, chatID, userID)
	c.Set(keyRID, rid)

	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	c.Set(keyContext, ctx)
	return ctx
}

// RID returns the request id assigned by Begin.
func RID(c tele.Context) string {
	if c == nil {
		return ""
	}
	rid, _ := c.Get(keyRID).(string)
	return rid
}

// BuildContext returns the context stored for this update, creating it when
// no middleware ran first (tests, direct handler calls).
func BuildContext(c tele.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if ctx, ok := c.Get(keyContext).(context.Context); ok && ctx != nil {
		return ctx
	}
	return Begin(c)
}

// WithHandler tags the update context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	c.Set(keyContext, ctx)
	return ctx
}
