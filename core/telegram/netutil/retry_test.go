package netutil

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestClassify(t *testing.T) {
	reset := &net.OpError{Op: "read", Err: os.NewSyscallError("read", syscall.ECONNRESET)}
	cases := []struct {
		name string
		err  error
		want Reason
	}{
		{"nil", nil, ReasonNone},
		{"plain", errors.New("bad request"), ReasonNone},
		{"timeout", timeoutErr{}, ReasonTimeout},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, ReasonDial},
		{"refused", fmt.Errorf("post: %w", syscall.ECONNREFUSED), ReasonDial},
		{"read reset", reset, ReasonReset},
		{"read other", &net.OpError{Op: "read", Err: errors.New("closed")}, ReasonNone},
		{"eof", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: io.ErrUnexpectedEOF}, ReasonEOF},
		{"url timeout", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: timeoutErr{}}, ReasonTimeout},
		{"url dial", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: &net.OpError{Op: "dial", Err: errors.New("x")}}, ReasonDial},
		{"wrapped", fmt.Errorf("send: %w", timeoutErr{}), ReasonTimeout},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("%s: Classify = %q, want %q", tc.name, got, tc.want)
		}
		if ShouldRetry(tc.err) != (tc.want != ReasonNone) {
			t.Fatalf("%s: ShouldRetry disagrees with Classify", tc.name)
		}
	}
}

func TestRetryableStatus(t *testing.T) {
	for code, want := range map[int]bool{200: false, 400: false, 429: false, 500: false, 502: true, 503: true, 504: true} {
		if got := RetryableStatus(code); got != want {
			t.Fatalf("RetryableStatus(%d) = %v, want %v", code, got, want)
		}
	}
}
