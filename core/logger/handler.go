package logger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders flat records: context ids are lifted into
// top-level keys, enumerations are normalised and empty values dropped.
type structuredHandler struct {
	cfg    handlerConfig
	rank   map[string]int
	attrs  []slog.Attr
	prefix string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = defaultKeyOrder
	}
	rank := make(map[string]int, len(cfg.keyOrder))
	for i, k := range cfg.keyOrder {
		if _, dup := rank[k]; !dup {
			rank[k] = i
		}
	}
	return &structuredHandler{cfg: cfg, rank: rank}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return errors.New("logger: writer not initialized")
	}
	asJSON := h.cfg.format == formatJSON

	rec := record{}
	ts := r.Time.UTC()
	rec["ts"] = ts.Truncate(time.Millisecond).Format(timeFormatMillis)
	rec["level"] = normalizeLevel(r.Level.String())
	if asJSON {
		rec["ts_unix_nano"] = ts.UnixNano()
	}
	for _, a := range h.attrs {
		rec.add(h.prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.add(h.prefix, a)
		return true
	})
	rec.fromContext(ctx)
	rec.finish(r.Message, asJSON)

	keys := rec.sorted(h.rank)
	var line []byte
	if asJSON {
		var err error
		if line, err = encodeJSON(rec, keys); err != nil {
			return err
		}
	} else {
		line = encodeKV(rec, keys)
	}
	return h.cfg.writer.Write(append(line, '\n'))
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(slices.Clip(h.attrs), attrs...)
	return &clone
}

func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = joinKey(h.prefix, name)
	return &clone
}

// record is one log line before encoding.
type record map[string]any

// add flattens groups into dotted keys.
func (rec record) add(prefix string, a slog.Attr) {
	key := joinKey(prefix, a.Key)
	if a.Value.Kind() == slog.KindGroup {
		for _, child := range a.Value.Group() {
			rec.add(key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if k, v, ok := normalizeAttr(key, a.Value.Resolve()); ok {
		rec[k] = v
	}
}

func (rec record) setDefault(key string, v any) {
	if _, ok := rec[key]; !ok {
		rec[key] = v
	}
}

func (rec record) str(key string) string {
	switch v := rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (rec record) fromContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	if rid := RIDFrom(ctx); rid != "" {
		rec.setDefault("rid", rid)
	}
	if id := UpdateIDFrom(ctx); id != 0 {
		rec.setDefault("update_id", id)
	}
	if id := UserIDFrom(ctx); id != 0 {
		rec.setDefault("user_id", id)
	}
	if id := ChatIDFrom(ctx); id != 0 {
		rec.setDefault("chat_id", id)
	}
	if name := HandlerFrom(ctx); name != "" {
		rec.setDefault("handler", name)
	}
}

// finish fills defaults, normalises enumerations and drops empty values.
func (rec record) finish(msg string, keepFullRID bool) {
	if rid := rec.str("rid"); rid != "" {
		if compact := CompactRID(rid); compact != rid {
			if keepFullRID {
				rec.setDefault("rid_full", rid)
			}
			rec["rid"] = compact
		}
	}
	if rec.str("event") == "" {
		rec["event"] = cmpOr(msg, "unknown")
	}
	if rec.str("component") == "" {
		rec["component"] = "app"
	}

	rec["level"] = normalizeLevel(rec.str("level"))
	if s := rec.str("status"); s != "" {
		rec["status"], _ = normalizeStatus(s)
	}
	rec.enum("op", normalizeOp)
	rec.enum("outcome", normalizeOutcome)

	for k, v := range rec {
		if v == nil || v == "" {
			delete(rec, k)
		}
	}
}

// enum keeps key only when norm accepts its value.
func (rec record) enum(key string, norm func(string) (string, bool)) {
	v := rec.str(key)
	if v == "" {
		return
	}
	if n, ok := norm(v); ok {
		rec[key] = n
		return
	}
	delete(rec, key)
}

// sorted lists ranked keys first, then the rest alphabetically.
func (rec record) sorted(rank map[string]int) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ra, oka := rank[a]
		rb, okb := rank[b]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}

func encodeJSON(rec record, keys []string) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, '{')
	for i, k := range keys {
		v, err := json.Marshal(rec[k])
		if err != nil {
			return nil, fmt.Errorf("logger: encode %s: %w", k, err)
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, k)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}

func encodeKV(rec record, keys []string) []byte {
	buf := make([]byte, 0, 256)
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, k...)
		buf = append(buf, '=')
		buf = appendKVValue(buf, rec[k])
	}
	return buf
}

func appendKVValue(buf []byte, v any) []byte {
	switch x := v.(type) {
	case bool:
		return strconv.AppendBool(buf, x)
	case int64:
		return strconv.AppendInt(buf, x, 10)
	case int:
		return strconv.AppendInt(buf, int64(x), 10)
	case uint64:
		return strconv.AppendUint(buf, x, 10)
	case float64:
		return strconv.AppendFloat(buf, x, 'g', -1, 64)
	}
	s := fmt.Sprint(v)
	if strings.IndexFunc(s, needsQuote) >= 0 {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func needsQuote(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}

func normalizeAttr(key string, val slog.Value) (string, any, bool) {
	switch val.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(val.String()), true
	case slog.KindBool:
		return key, val.Bool(), true
	case slog.KindInt64:
		return key, val.Int64(), true
	case slog.KindUint64:
		if u := val.Uint64(); u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, val.Uint64(), true
	case slog.KindFloat64:
		return key, val.Float64(), true
	case slog.KindDuration:
		return durationKey(key), RoundMS(val.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, val.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := val.Any().(type) {
	case nil:
		return "", nil, false
	case error:
		return key, x.Error(), true
	case time.Duration:
		return durationKey(key), RoundMS(x).Milliseconds(), true
	case string:
		return key, strings.TrimSpace(x), true
	case fmt.Stringer:
		return key, x.String(), true
	default:
		return key, fmt.Sprint(x), true
	}
}

// durationKey maps duration attributes onto *_ms keys.
func durationKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	}
	return key + "_ms"
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	}
	return prefix + "." + key
}

func cmpOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
