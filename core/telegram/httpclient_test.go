package telegram

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	coreconfig "github.com/m3rciful/buylist/core/config"
)

type flakyTransport struct {
	failures int
	status   int
	calls    int
	bodies   []string
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(b))
	}
	if f.calls <= f.failures {
		if f.status != 0 {
			return &http.Response{StatusCode: f.status, Status: http.StatusText(f.status), Body: io.NopCloser(strings.NewReader(""))}, nil
		}
		return nil, &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}"))}, nil
}

func noSleep(*http.Request, time.Duration) error { return nil }

func TestRetryTransportReplaysBody(t *testing.T) {
	base := &flakyTransport{failures: 2}
	rt := &retryTransport{base: base, attempts: 3, sleep: noSleep}
	req, _ := http.NewRequest(http.MethodPost, "https://api.telegram.org/botX/sendMessage", strings.NewReader(`{"text":"Active list"}`))

	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()
	if base.calls != 3 {
		t.Fatalf("calls = %d, want 3", base.calls)
	}
	for i, b := range base.bodies {
		if b != `{"text":"Active list"}` {
			t.Fatalf("attempt %d body = %q", i, b)
		}
	}
}

func TestRetryTransportGatewayStatus(t *testing.T) {
	base := &flakyTransport{failures: 1, status: http.StatusBadGateway}
	rt := &retryTransport{base: base, attempts: 2, sleep: noSleep}
	req, _ := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if resp.StatusCode != http.StatusOK || base.calls != 2 {
		t.Fatalf("status = %d calls = %d", resp.StatusCode, base.calls)
	}
}

func TestRetryTransportGivesUp(t *testing.T) {
	base := &flakyTransport{failures: 10}
	rt := &retryTransport{base: base, attempts: 2, sleep: noSleep}
	req, _ := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	if _, err := rt.RoundTrip(req); err == nil {
		t.Fatal("expected error")
	}
	if base.calls != 3 {
		t.Fatalf("calls = %d, want 3", base.calls)
	}
}

func TestRetryTransportStopsOnSleepError(t *testing.T) {
	base := &flakyTransport{failures: 10}
	stop := errors.New("cancelled")
	rt := &retryTransport{base: base, attempts: 5, sleep: func(*http.Request, time.Duration) error { return stop }}
	req, _ := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	if _, err := rt.RoundTrip(req); !errors.Is(err, stop) {
		t.Fatalf("err = %v, want %v", err, stop)
	}
	if base.calls != 1 {
		t.Fatalf("calls = %d, want 1", base.calls)
	}
}

func TestHTTPOptionsFrom(t *testing.T) {
	if got := HTTPOptionsFrom(coreconfig.HTTPConfig{}); got != DefaultHTTPOptions {
		t.Fatalf("defaults = %+v", got)
	}
	got := HTTPOptionsFrom(coreconfig.HTTPConfig{TimeoutSeconds: 5, RetryAttempts: 1, RetryBackoffMS: 250})
	want := HTTPOptions{Timeout: 5 * time.Second, Attempts: 1, Backoff: 250 * time.Millisecond}
	if got != want {
		t.Fatalf("options = %+v, want %+v", got, want)
	}
	if c := BuildHTTPClient(got); c.Timeout != 5*time.Second {
		t.Fatalf("client timeout = %v", c.Timeout)
	}
}
