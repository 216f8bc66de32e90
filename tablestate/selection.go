package tablestate

import (
	"sort"
	"sync"
)

// Selection tracks which rows of a mounted table are selected, by row id.
// Like Visibility it is pure interaction state and never reaches the query
// key. Safe for concurrent use.
type Selection struct {
	mu       sync.Mutex
	selected map[string]bool
}

// NewSelection creates empty selection state.
func NewSelection() *Selection {
	return &Selection{selected: make(map[string]bool)}
}

// IsSelected reports whether a row is selected.
func (s *Selection) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[id]
}

// Select marks a row selected.
func (s *Selection) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[id] = true
}

// Deselect unmarks a row.
func (s *Selection) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, id)
}

// Toggle flips a row's selection.
func (s *Selection) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected[id] {
		delete(s.selected, id)
	} else {
		s.selected[id] = true
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]bool)
}

// Count returns the number of selected rows.
func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// IDs returns the selected row ids in sorted order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
