package logger

import "strings"

type set map[string]struct{}

func newSet(vals ...string) set {
	s := make(set, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

var (
	knownStatus  = newSet("ok", "fail", "skip", "retry", "denied", "rate_limited", "cancelled")
	knownOutcome = newSet("ok", "fail", "noop", "cancelled", "rate_limited")
	// list mutations and navigation
	knownOps = newSet("activate", "deactivate", "refresh", "reset", "navigate")
)

// normalizeLevel maps slog level names onto DEBUG/INFO/WARN/ERROR.
// Offsets such as "INFO+2" are kept upper-cased.
func normalizeLevel(level string) string {
	switch l := strings.ToUpper(strings.TrimSpace(level)); l {
	case "":
		return "INFO"
	case "WARNING":
		return "WARN"
	default:
		return l
	}
}

// normalizeStatus lower-cases status; unknown values are kept but reported.
func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	_, ok := knownStatus[status]
	return status, ok
}

func normalizeOutcome(outcome string) (string, bool) { return lookup(knownOutcome, outcome) }

func normalizeOp(op string) (string, bool) { return lookup(knownOps, op) }

func lookup(s set, v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	_, ok := s[v]
	return v, ok && v != ""
}

// defaultKeyOrder puts identity first, then the update, then list details.
// Keys not listed follow in alphabetical order.
var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status",
	"rid", "rid_full", "ts_unix_nano",
	"update_id", "user_id", "chat_id", "chat_type",
	"handler", "op", "cb_key", "outcome", "duration_ms", "messages", "kb",
	"item", "slot", "page",
	"items_total", "items_active", "items_added", "items_dropped", "users_total",
	"source", "payload", "lang", "username",
	"mode", "listen", "public_url", "addr",
	"db", "host", "port",
	"err", "err_code", "cause", "reason", "attempt", "attempts", "backoff_ms",
}
