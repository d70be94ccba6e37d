package shoplist

import (
	"context"
	"errors"
)

// ErrSourceUnavailable matches every failure of the backing source.
var ErrSourceUnavailable = errors.New("shoplist: source unavailable")

// Entry is one (name, default) pair reported by a source.
type Entry struct {
	Name    string
	Default bool
}

// Snapshot is the full result of a single source read.
// Items keep the natural row order of the backing store.
type Snapshot struct {
	Items []Entry
	Users []int64
}

// Source reads the item defaults and the authorized users from a backing store.
// Implementations must return an error instead of an empty or partial snapshot
// when the store is unreachable or malformed.
type Source interface {
	Read(ctx context.Context) (Snapshot, error)
}

// SourceFunc adapts a bare function to the Source interface.
type SourceFunc func(ctx context.Context) (Snapshot, error)

// Read executes the underlying function.
func (f SourceFunc) Read(ctx context.Context) (Snapshot, error) {
	return f(ctx)
}

// SourceError wraps a failed source read.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	if e == nil || e.Err == nil {
		return ErrSourceUnavailable.Error()
	}
	return ErrSourceUnavailable.Error() + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSourceUnavailable) hold for every SourceError.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// Code returns a stable code for log summaries.
func (e *SourceError) Code() string { return "SOURCE_UNAVAILABLE" }
