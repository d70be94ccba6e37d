package router

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/buylist/core/logger"
	tghelpers "github.com/m3rciful/buylist/core/telegram/helpers"
	"github.com/m3rciful/buylist/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// summary is the handler.handled line written once per routed update.
type summary struct {
	name   string
	start  time.Time
	extras []slog.Attr
}

func newSummary(c tele.Context, name string, extras ...slog.Attr) *summary {
	return &summary{name: name, start: startOf(c), extras: extras}
}

// run tags the update with the handler name, calls fn and logs the result.
func (s *summary) run(c tele.Context, fn tele.HandlerFunc) error {
	tghelpers.WithHandler(c, s.name)
	err := fn(c)
	s.write(c, err, "")
	return err
}

// skip logs an update nothing handled.
func (s *summary) skip(c tele.Context) {
	s.write(c, nil, "noop")
}

func (s *summary) write(c tele.Context, err error, outcome string) {
	status := "ok"
	switch {
	case err != nil:
		status, outcome = "fail", "fail"
	case outcome == "noop":
		status = "skip"
	default:
		outcome = "ok"
	}
	msgs, kb := middleware.GetCounters(c)

	attrs := append([]slog.Attr{
		slog.String("status", status),
		slog.String("handler", s.name),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", time.Since(s.start)),
	}, s.extras...)
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	logger.LogEvent(tghelpers.WithHandler(c, s.name), logger.Component("tg"), slog.LevelInfo, "handler.handled", attrs...)
}

// handlerName turns "/list" or "Show list" into "list" / "show_list".
func handlerName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// errorCode gives errors a stable upper-case code for grouping in log queries.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var (
		apiErr   *tele.Error
		floodErr tele.FloodError
		coder    interface{ Code() string }
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELLED"
	case errors.As(err, &floodErr):
		return "TG_FLOOD"
	case errors.As(err, &apiErr):
		return "TG_" + strconv.Itoa(apiErr.Code)
	case errors.As(err, &coder) && strings.TrimSpace(coder.Code()) != "":
		return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(coder.Code()), " ", "_"))
	}

	inner := errors.Unwrap(err)
	if inner == nil {
		inner = err
	}
	t := reflect.TypeOf(inner)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}

// startOf returns the update start time stored by LoggerMiddleware.
func startOf(c tele.Context) time.Time {
	if t, ok := c.Get("update_start").(time.Time); ok {
		return t
	}
	return time.Now()
}
