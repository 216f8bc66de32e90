package tablestate

import (
	"sync"

	"github.com/goliatone/go-listing-cache/querykey"
)

// SortOrder is one column's sort entry.
type SortOrder struct {
	ID   string
	Desc bool
}

// Sorting holds the sort state of one mounted table. The UI may express a
// multi-column ordering, but only the first entry participates in the query
// key; single-column sort is the supported backend contract. Safe for
// concurrent use; the change callback runs outside the lock.
type Sorting struct {
	mu       sync.Mutex
	orders   []SortOrder
	onChange func()
}

// NewSorting creates empty sorting state; an empty state resolves to the
// query-key default (created_at descending).
func NewSorting() *Sorting {
	return &Sorting{}
}

// OnChange registers the callback invoked after every effective change.
func (s *Sorting) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Orders returns a copy of the current sort entries.
func (s *Sorting) Orders() []SortOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SortOrder(nil), s.orders...)
}

// Set replaces the sort entries.
func (s *Sorting) Set(orders []SortOrder) {
	s.mu.Lock()
	s.orders = append([]SortOrder(nil), orders...)
	s.mu.Unlock()
	s.notify()
}

// Toggle handles a column-header click: a new column sorts ascending, a
// repeated click on the current primary column flips its direction.
func (s *Sorting) Toggle(column string) {
	s.mu.Lock()
	if len(s.orders) > 0 && s.orders[0].ID == column {
		s.orders[0].Desc = !s.orders[0].Desc
	} else {
		s.orders = []SortOrder{{ID: column}}
	}
	s.mu.Unlock()
	s.notify()
}

// Primary returns the sort entry the query key consumes. The zero Sort is
// returned when nothing is set, letting the key builder apply its default.
func (s *Sorting) Primary() querykey.Sort {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.orders) == 0 {
		return querykey.Sort{}
	}
	return querykey.Sort{SortBy: s.orders[0].ID, Desc: s.orders[0].Desc}
}

func (s *Sorting) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
