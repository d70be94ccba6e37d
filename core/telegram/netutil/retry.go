// Package netutil classifies transport failures seen while talking to the
// Bot API so the HTTP client can decide whether another attempt is useful.
package netutil

import (
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
)

// Reason names why a failure is considered transient. Empty means permanent.
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonTimeout Reason = "timeout"
	ReasonDial    Reason = "dial"
	ReasonReset   Reason = "reset"
	ReasonEOF     Reason = "eof"
	ReasonStatus  Reason = "status"
)

// Classify inspects err (including wrapped url and net errors).
func Classify(err error) Reason {
	if err == nil {
		return ReasonNone
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ReasonTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return ReasonTimeout
		}
		if opErr.Op == "dial" {
			return ReasonDial
		}
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return ReasonDial
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return ReasonReset
	case errors.Is(err, io.ErrUnexpectedEOF):
		return ReasonEOF
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonNone
}

// ShouldRetry reports whether err is transient.
func ShouldRetry(err error) bool {
	return Classify(err) != ReasonNone
}

// RetryableStatus reports gateway failures in front of the Bot API.
// 429 is left to the caller: telebot surfaces it as a FloodError with retry_after.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
