package tablestate

import (
	"sync"

	"github.com/goliatone/go-listing-cache/querykey"
)

// Filters holds the secondary per-column filter values of one mounted
// table, independent of the primary free-text filter. Safe for concurrent
// use; the change callback runs outside the lock, since the debounced
// primary-filter commit reads filter state from a timer goroutine.
type Filters struct {
	mu       sync.Mutex
	values   map[string]string
	onChange func()
}

// NewFilters creates an empty secondary-filter set.
func NewFilters() *Filters {
	return &Filters{values: make(map[string]string)}
}

// OnChange registers the callback invoked after every effective change.
func (f *Filters) OnChange(fn func()) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Set assigns a filter value to a column. An empty value removes the
// column, keeping cleared filters out of the query key.
func (f *Filters) Set(column, value string) {
	if value == "" {
		f.Delete(column)
		return
	}
	f.mu.Lock()
	if f.values[column] == value {
		f.mu.Unlock()
		return
	}
	f.values[column] = value
	f.mu.Unlock()
	f.notify()
}

// Delete removes a column's filter.
func (f *Filters) Delete(column string) {
	f.mu.Lock()
	if _, ok := f.values[column]; !ok {
		f.mu.Unlock()
		return
	}
	delete(f.values, column)
	f.mu.Unlock()
	f.notify()
}

// Clear removes every filter.
func (f *Filters) Clear() {
	f.mu.Lock()
	if len(f.values) == 0 {
		f.mu.Unlock()
		return
	}
	f.values = make(map[string]string)
	f.mu.Unlock()
	f.notify()
}

// Values returns the filters in the form the query key consumes.
func (f *Filters) Values() querykey.Filters {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(querykey.Filters, len(f.values))
	for col, val := range f.values {
		out[col] = val
	}
	return out
}

func (f *Filters) notify() {
	f.mu.Lock()
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}
