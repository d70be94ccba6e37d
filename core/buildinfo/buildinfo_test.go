package buildinfo

import (
	"runtime"
	"testing"
)

func TestString(t *testing.T) {
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })

	Version, Commit, Date = "v0.3.0", "abc1234", ""
	if got, want := String(), "buylistbot v0.3.0 (abc1234, "+runtime.Version()+")"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	Date = "2026-01-02T03:04:05Z"
	if got, want := String(), "buylistbot v0.3.0 (abc1234, 2026-01-02T03:04:05Z, "+runtime.Version()+")"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
