package shoplist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultPageSize is the number of items shown on one page of the full list.
const DefaultPageSize = 10

// Registry owns the ordered item set, the slot index and the authorized users.
//
// Slots are positions in the order returned by the last successful read and are
// only valid until the next refresh.
type Registry struct {
	src      Source
	obs      Observer
	pageSize int

	// refreshMu serialises Refresh and ResetAll so reads never interleave.
	refreshMu sync.Mutex

	mu    sync.RWMutex
	items []*Item
	index map[string]int
	users []int64
	allow map[int64]struct{}
}

// Option customises a Registry.
type Option func(*Registry)

// WithPageSize overrides DefaultPageSize. Non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithObserver installs tracing hooks around the registry mutators.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.obs = o
		}
	}
}

// New builds a registry and performs the initial source read.
func New(ctx context.Context, src Source, opts ...Option) (*Registry, error) {
	if src == nil {
		return nil, errors.New("shoplist: nil source")
	}
	r := &Registry{
		src:      src,
		obs:      nopObserver{},
		pageSize: DefaultPageSize,
		index:    make(map[string]int),
		allow:    make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// PageSize returns the configured page window size.
func (r *Registry) PageSize() int { return r.pageSize }

// Refresh re-reads the source and merges it into the current state.
// Known items keep their active flag, new items start at their default and
// missing items are dropped. A failed read leaves the registry untouched.
func (r *Registry) Refresh(ctx context.Context) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()
	return r.reload(ctx, false)
}

// ResetAll refreshes and then resets every item to its default.
func (r *Registry) ResetAll(ctx context.Context) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()
	return r.reload(ctx, true)
}

func (r *Registry) reload(ctx context.Context, reset bool) error {
	start := time.Now()
	snap, err := r.src.Read(ctx)
	if err != nil {
		serr := &SourceError{Err: err}
		r.obs.ObserveRefresh(ctx, RefreshEvent{Reset: reset, Duration: time.Since(start), Err: serr})
		if reset {
			return fmt.Errorf("shoplist: reset: %w", serr)
		}
		return fmt.Errorf("shoplist: refresh: %w", serr)
	}

	r.mu.Lock()
	ev := r.swap(snap, reset)
	r.mu.Unlock()

	ev.Duration = time.Since(start)
	r.obs.ObserveRefresh(ctx, ev)
	return nil
}

// swap replaces the state with the merge of snap. Callers hold mu.
func (r *Registry) swap(snap Snapshot, reset bool) RefreshEvent {
	items := make([]*Item, 0, len(snap.Items))
	index := make(map[string]int, len(snap.Items))
	ev := RefreshEvent{Reset: reset}

	for _, e := range snap.Items {
		if pos, dup := index[e.Name]; dup {
			items[pos].def = e.Default
			continue
		}
		it := newItem(e.Name, e.Default)
		if prev, ok := r.index[e.Name]; ok {
			it.active = r.items[prev].active
			ev.Kept++
		} else {
			ev.Added++
		}
		index[e.Name] = len(items)
		items = append(items, it)
	}
	ev.Dropped = len(r.items) - ev.Kept

	if reset {
		for _, it := range items {
			it.ResetToDefault()
		}
	}

	users := make([]int64, 0, len(snap.Users))
	allow := make(map[int64]struct{}, len(snap.Users))
	for _, id := range snap.Users {
		if _, seen := allow[id]; seen {
			continue
		}
		allow[id] = struct{}{}
		users = append(users, id)
	}

	r.items, r.index = items, index
	r.users, r.allow = users, allow

	ev.Total = len(items)
	ev.Active = r.activeCount()
	ev.Users = len(users)
	return ev
}

// Activate marks the named item as needed. It reports false for unknown names.
func (r *Registry) Activate(ctx context.Context, name string) bool {
	return r.toggle(ctx, OpActivate, name, (*Item).Activate)
}

// Deactivate marks the named item as bought. It reports false for unknown names.
func (r *Registry) Deactivate(ctx context.Context, name string) bool {
	return r.toggle(ctx, OpDeactivate, name, (*Item).Deactivate)
}

func (r *Registry) toggle(ctx context.Context, op string, name string, apply func(*Item)) bool {
	r.mu.Lock()
	slot, ok := r.index[name]
	if ok {
		apply(r.items[slot])
	}
	ev := ToggleEvent{Op: op, Name: name, Found: ok, Total: len(r.items), Active: r.activeCount()}
	r.mu.Unlock()

	r.obs.ObserveToggle(ctx, ev)
	return ok
}

// NameForSlot resolves a slot to the item name.
func (r *Registry) NameForSlot(slot int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if slot < 0 || slot >= len(r.items) {
		return "", false
	}
	return r.items[slot].name, true
}

// SlotForName resolves an item name to its current slot.
func (r *Registry) SlotForName(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.index[name]
	return slot, ok
}

// IsActive reports the active flag of the named item and whether it exists.
func (r *Registry) IsActive(name string) (active bool, found bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.index[name]
	if !ok {
		return false, false
	}
	return r.items[slot].active, true
}

// Len returns the number of items.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Items returns a copy of every item in slot order.
func (r *Registry) Items() []ItemState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ItemState, len(r.items))
	for i, it := range r.items {
		out[i] = ItemState{Name: it.name, Default: it.def, Active: it.active, Slot: i}
	}
	return out
}

// AuthorizedUsers returns the allow-list from the last successful read.
func (r *Registry) AuthorizedUsers() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]int64(nil), r.users...)
}

// IsAuthorized reports whether id is on the current allow-list.
func (r *Registry) IsAuthorized(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.allow[id]
	return ok
}

func (r *Registry) activeCount() int {
	n := 0
	for _, it := range r.items {
		if it.active {
			n++
		}
	}
	return n
}
