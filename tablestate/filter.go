package tablestate

import (
	"fmt"
	"sync"
	"time"
)

// DefaultDebounce is the coalescing window between raw keystrokes and the
// committed primary-filter value. Commits, not keystrokes, produce new
// query keys, so typing never generates a cache miss per character.
const DefaultDebounce = 300 * time.Millisecond

// PrimaryFilter holds the single free-text search value of one mounted
// table. Raw input is staged immediately; the committed value, which is
// what participates in the query key, trails it by the debounce window.
type PrimaryFilter struct {
	mu        sync.Mutex
	window    time.Duration
	raw       string
	committed string
	timer     *time.Timer
	onCommit  func()
}

// FilterOption configures a PrimaryFilter.
type FilterOption func(*PrimaryFilter)

// WithDebounce overrides the coalescing window. Non-positive durations
// fall back to DefaultDebounce.
func WithDebounce(window time.Duration) FilterOption {
	return func(f *PrimaryFilter) {
		if window > 0 {
			f.window = window
		}
	}
}

// NewPrimaryFilter creates an empty filter.
func NewPrimaryFilter(opts ...FilterOption) *PrimaryFilter {
	f := &PrimaryFilter{window: DefaultDebounce}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OnChange registers the callback invoked when a value is committed.
func (f *PrimaryFilter) OnChange(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onCommit = fn
}

// Set stages a new raw value and (re)starts the debounce window.
func (f *PrimaryFilter) Set(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw = value
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.window, f.commit)
}

// SetValue stages a value of unknown type. UI layers have been seen handing
// event objects to value setters; anything that is not a string or a
// fmt.Stringer is dropped so structured values can never corrupt the cache
// key.
func (f *PrimaryFilter) SetValue(value any) {
	switch v := value.(type) {
	case string:
		f.Set(v)
	case fmt.Stringer:
		f.Set(v.String())
	}
}

// Value returns the committed value, i.e. what the query key carries.
func (f *PrimaryFilter) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed
}

// Pending returns the staged raw value ahead of its commit.
func (f *PrimaryFilter) Pending() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raw
}

// Flush commits the staged value immediately, e.g. on an explicit submit.
func (f *PrimaryFilter) Flush() {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()
	f.commit()
}

// Stop cancels any pending commit. Called on unmount.
func (f *PrimaryFilter) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *PrimaryFilter) commit() {
	f.mu.Lock()
	changed := f.committed != f.raw
	f.committed = f.raw
	cb := f.onCommit
	f.mu.Unlock()

	if changed && cb != nil {
		cb()
	}
}
