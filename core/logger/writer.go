package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// op is either a line to write or, when ack is set, a flush barrier.
type op struct {
	line []byte
	ack  chan error
}

// asyncWriter copies lines to every sink from one goroutine so slow files
// never interleave partial records. Ops are processed in submission order.
type asyncWriter struct {
	ops     chan op
	done    chan struct{}
	sinks   []*bufio.Writer
	err     atomic.Pointer[error]
	stopped atomic.Bool
	closed  sync.Once
}

var errWriterClosed = errors.New("logger: writer closed")

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &asyncWriter{
		ops:  make(chan op, 256),
		done: make(chan struct{}),
	}
	for _, dst := range writers {
		if dst != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(dst, bufSize))
		}
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for o := range w.ops {
		if o.ack != nil {
			o.ack <- w.flush()
			continue
		}
		for _, s := range w.sinks {
			if _, err := s.Write(o.line); err != nil {
				w.fail(err)
			}
		}
		// Idle queue: push what we have so tail -f stays current.
		if len(w.ops) == 0 {
			if err := w.flush(); err != nil {
				w.fail(err)
			}
		}
	}
	if err := w.flush(); err != nil {
		w.fail(err)
	}
}

func (w *asyncWriter) flush() error {
	var errs []error
	for _, s := range w.sinks {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) fail(err error) {
	w.err.CompareAndSwap(nil, &err)
}

func (w *asyncWriter) firstErr() error {
	if p := w.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Write queues a copy of p. It blocks while the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if w.stopped.Load() {
		return errWriterClosed
	}
	if err := w.firstErr(); err != nil {
		return err
	}
	if len(p) > 0 {
		w.ops <- op{line: append([]byte(nil), p...)}
	}
	return nil
}

// Flush returns once every line queued before it reached the sinks.
func (w *asyncWriter) Flush() error {
	if w.stopped.Load() {
		return errWriterClosed
	}
	if err := w.firstErr(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.ops <- op{ack: ack}
	return <-ack
}

// Close drains the queue and returns the first write error.
func (w *asyncWriter) Close() error {
	w.closed.Do(func() {
		w.stopped.Store(true)
		close(w.ops)
	})
	<-w.done
	return w.firstErr()
}
