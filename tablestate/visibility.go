package tablestate

import "sync"

// Visibility tracks which columns a mounted table renders. It is pure
// presentation state: it never participates in the query key and changing
// it never triggers a fetch. Safe for concurrent use.
type Visibility struct {
	mu     sync.Mutex
	hidden map[string]bool
}

// NewVisibility creates visibility state with every column visible.
func NewVisibility() *Visibility {
	return &Visibility{hidden: make(map[string]bool)}
}

// Visible reports whether a column is shown.
func (v *Visibility) Visible(column string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.hidden[column]
}

// SetVisible shows or hides a column.
func (v *Visibility) SetVisible(column string, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if visible {
		delete(v.hidden, column)
	} else {
		v.hidden[column] = true
	}
}

// Toggle flips a column's visibility.
func (v *Visibility) Toggle(column string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.hidden[column] {
		delete(v.hidden, column)
	} else {
		v.hidden[column] = true
	}
}
