package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	keyRID ctxKey = iota
	keyUpdateID
	keyUserID
	keyChatID
	keyLogger
	keyHandler
)

func with(ctx context.Context, key ctxKey, v any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, v)
}

func value[T any](ctx context.Context, key ctxKey) T {
	var zero T
	if ctx == nil {
		return zero
	}
	v, _ := ctx.Value(key).(T)
	return v
}

// WithLogger stores log in ctx; a nil log leaves ctx unchanged.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if log == nil {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return with(ctx, keyLogger, log)
}

// FromContext returns the logger stored in ctx, or L.
func FromContext(ctx context.Context) *slog.Logger {
	if l := value[*slog.Logger](ctx, keyLogger); l != nil {
		return l
	}
	return L
}

// WithRID attaches the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return with(ctx, keyRID, rid)
}

// RIDFrom returns the rid set by WithRID.
func RIDFrom(ctx context.Context) string { return value[string](ctx, keyRID) }

// WithUpdateMeta attaches the update, user and chat ids.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	ctx = with(ctx, keyUpdateID, updateID)
	ctx = with(ctx, keyUserID, userID)
	return with(ctx, keyChatID, chatID)
}

// WithHandler names the handler serving the update.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return with(ctx, keyHandler, handler)
}

func HandlerFrom(ctx context.Context) string { return value[string](ctx, keyHandler) }
func UpdateIDFrom(ctx context.Context) int   { return value[int](ctx, keyUpdateID) }
func UserIDFrom(ctx context.Context) int64   { return value[int64](ctx, keyUserID) }
func ChatIDFrom(ctx context.Context) int64   { return value[int64](ctx, keyChatID) }
