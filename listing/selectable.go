package listing

import (
	"sort"
	"sync"

	"github.com/goliatone/go-listing-cache/cache"
)

// SelectableController is a listing used purely for multi-select
// attachment, e.g. assigning services to a user. It keeps two independent
// pieces of state: the server-confirmed membership and the user's
// in-progress local selection. The two reconcile only on an explicit
// Apply, so a half-finished selection can never commit by accident.
type SelectableController[T any] struct {
	*Controller[T]

	mu       sync.Mutex
	existing map[string]bool
}

// NewSelectableController mounts a selectable listing for an entity kind.
func NewSelectableController[T any](kind string, fetcher Fetcher[T], cacheService cache.CacheService, opts ...Option[T]) (*SelectableController[T], error) {
	inner, err := NewController(kind, fetcher, cacheService, opts...)
	if err != nil {
		return nil, err
	}
	return &SelectableController[T]{Controller: inner, existing: make(map[string]bool)}, nil
}

// SetExisting installs the server-confirmed membership and resets the
// local selection to match it, discarding any in-progress edits.
func (s *SelectableController[T]) SetExisting(ids []string) {
	s.mu.Lock()
	s.existing = make(map[string]bool, len(ids))
	for _, id := range ids {
		s.existing[id] = true
	}
	s.mu.Unlock()

	sel := s.Selection()
	sel.Clear()
	for _, id := range ids {
		sel.Select(id)
	}
}

// Existing returns the server-confirmed membership in sorted order.
func (s *SelectableController[T]) Existing() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.existing))
	for id := range s.existing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pending returns the ids the local selection would attach (selected but
// not yet confirmed) and detach (confirmed but deselected) if applied now.
func (s *SelectableController[T]) Pending() (attach, detach []string) {
	selected := s.Selection().IDs()

	s.mu.Lock()
	defer s.mu.Unlock()

	isSelected := make(map[string]bool, len(selected))
	for _, id := range selected {
		isSelected[id] = true
		if !s.existing[id] {
			attach = append(attach, id)
		}
	}
	for id := range s.existing {
		if !isSelected[id] {
			detach = append(detach, id)
		}
	}
	sort.Strings(attach)
	sort.Strings(detach)
	return attach, detach
}

// Apply commits the local selection: it returns the attach/detach delta
// for the caller's mutation and promotes the selection to the confirmed
// membership. Callers run their mutation first and call Apply only on
// success.
func (s *SelectableController[T]) Apply() (attached, detached []string) {
	attached, detached = s.Pending()

	s.mu.Lock()
	s.existing = make(map[string]bool)
	for _, id := range s.Selection().IDs() {
		s.existing[id] = true
	}
	s.mu.Unlock()
	return attached, detached
}

// Revert discards in-progress edits and restores the confirmed membership.
func (s *SelectableController[T]) Revert() {
	s.SetExisting(s.Existing())
}
