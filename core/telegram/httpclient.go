package telegram

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	coreconfig "github.com/m3rciful/buylist/core/config"
	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/core/telegram/netutil"
)

// HTTPOptions controls the Bot API client.
type HTTPOptions struct {
	Timeout  time.Duration
	Attempts int // extra attempts after the first
	Backoff  time.Duration
}

// DefaultHTTPOptions are used for every zero field of telegram.http.
var DefaultHTTPOptions = HTTPOptions{
	Timeout:  30 * time.Second,
	Attempts: 3,
	Backoff:  2 * time.Second,
}

// HTTPOptionsFrom maps telegram.http onto HTTPOptions.
func HTTPOptionsFrom(cfg coreconfig.HTTPConfig) HTTPOptions {
	opts := DefaultHTTPOptions
	if cfg.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.RetryAttempts > 0 {
		opts.Attempts = cfg.RetryAttempts
	}
	if cfg.RetryBackoffMS > 0 {
		opts.Backoff = time.Duration(cfg.RetryBackoffMS) * time.Millisecond
	}
	return opts
}

// BuildHTTPClient returns a pooled client that retries transient failures.
func BuildHTTPClient(opts HTTPOptions) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout: opts.Timeout,
		Transport: &retryTransport{
			base:     transport,
			attempts: opts.Attempts,
			backoff:  opts.Backoff,
		},
	}
}

type retryTransport struct {
	base     http.RoundTripper
	attempts int
	backoff  time.Duration
	sleep    func(*http.Request, time.Duration) error
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	wait := t.sleep
	if wait == nil {
		wait = sleepCtx
	}

	for attempt := 0; ; attempt++ {
		resp, err := base.RoundTrip(req)

		reason := netutil.Classify(err)
		if err == nil && netutil.RetryableStatus(resp.StatusCode) {
			reason = netutil.ReasonStatus
		}
		if reason == netutil.ReasonNone || attempt >= t.attempts {
			return resp, err
		}

		next, rerr := rewind(req)
		if rerr != nil {
			return resp, err
		}
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		logger.Debug(req.Context(), "tg", "tg.http.retry",
			slog.String("status", "retry"),
			slog.String("reason", string(reason)),
			slog.Int("attempt", attempt+1),
		)
		if err := wait(req, t.backoff*time.Duration(attempt+1)); err != nil {
			return nil, err
		}
		req = next
	}
}

// rewind clones req with a fresh body; requests without GetBody cannot be replayed.
func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	if req.GetBody == nil {
		return nil, http.ErrBodyReadAfterClose
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	next.Body = body
	return next, nil
}

func sleepCtx(req *http.Request, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}
