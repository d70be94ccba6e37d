package logger

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type failingSink struct{ err error }

func (f failingSink) Write([]byte) (int, error) { return 0, f.err }

func TestAsyncWriterFansOutInOrder(t *testing.T) {
	var a, b bytes.Buffer
	w := newAsyncWriter([]io.Writer{&a, nil, &b}, 16)
	for _, line := range []string{"one\n", "two\n", "three\n"} {
		if err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if a.String() != "one\ntwo\nthree\n" || b.String() != a.String() {
		t.Fatalf("sinks = %q / %q", a.String(), b.String())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Write([]byte("late\n")); !errors.Is(err, errWriterClosed) {
		t.Fatalf("write after close = %v", err)
	}
}

func TestAsyncWriterKeepsFirstError(t *testing.T) {
	boom := errors.New("disk full")
	w := newAsyncWriter([]io.Writer{failingSink{err: boom}}, 1)
	_ = w.Write([]byte("milk\n"))
	if err := w.Close(); !errors.Is(err, boom) {
		t.Fatalf("close = %v, want %v", err, boom)
	}
}
