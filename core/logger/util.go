package logger

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Took is time.Since(start) rounded to milliseconds.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to the nearest millisecond; negative values become 0.
func RoundMS(d time.Duration) time.Duration {
	return max(d, 0).Round(time.Millisecond)
}

// SummarizeStrings joins at most limit values and reports whether any were cut.
func SummarizeStrings(values []string, limit int) (string, bool) {
	limit = max(limit, 0)
	if len(values) <= limit {
		return strings.Join(values, ", "), false
	}
	return strings.Join(values[:limit], ", "), true
}

// Sanitize drops control and format runes except tab and newline.
// Item names come from spreadsheets and often carry zero-width spaces.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeLimit sanitizes s and keeps at most n runes.
func SanitizeLimit(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(Sanitize(s))
	return string(r[:min(n, len(r))])
}

// BuildRID formats updateID:chatID:userID.
func BuildRID(updateID int, chatID, userID int64) string {
	return strconv.Itoa(updateID) + ":" + strconv.FormatInt(chatID, 10) + ":" + strconv.FormatInt(userID, 10)
}

// CompactRID rewrites a BuildRID value in dotted base36; other input is returned as is.
func CompactRID(rid string) string {
	rid = strings.TrimSpace(rid)
	parts := strings.Split(rid, ":")
	if len(parts) != 3 {
		return rid
	}
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return rid
		}
		parts[i] = strconv.FormatInt(n, 36)
	}
	return strings.Join(parts, ".")
}
