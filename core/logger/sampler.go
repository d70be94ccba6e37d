package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

type ratio struct{ keep, of uint64 }

// ratioSampler lets keep out of every `of` calls through, starting with the first.
// A nil ratio allows everything.
type ratioSampler struct {
	r    atomic.Pointer[ratio]
	seen atomic.Uint64
}

func newRatioSampler(keep, of int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(keep, of)
	return s
}

// Set replaces the ratio and restarts the cycle. Non-positive values disable sampling.
func (s *ratioSampler) Set(keep, of int) {
	s.seen.Store(0)
	if keep <= 0 || of <= 0 {
		s.r.Store(nil)
		return
	}
	s.r.Store(&ratio{keep: uint64(min(keep, of)), of: uint64(of)})
}

// Allow reports whether the next event passes.
func (s *ratioSampler) Allow() bool {
	r := s.r.Load()
	if r == nil {
		return true
	}
	return (s.seen.Add(1)-1)%r.of < r.keep
}

// parseRatioSpec accepts "keep/of" or a bare "of" meaning 1/of.
// Anything unparsable yields 0/0.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if keepStr, ofStr, ok := strings.Cut(spec, "/"); ok {
		keep, err1 := strconv.Atoi(strings.TrimSpace(keepStr))
		of, err2 := strconv.Atoi(strings.TrimSpace(ofStr))
		if err1 != nil || err2 != nil {
			return 0, 0
		}
		return keep, of
	}
	of, err := strconv.Atoi(spec)
	if err != nil || of <= 0 {
		return 0, 0
	}
	return 1, of
}
