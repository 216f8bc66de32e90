package tablestate

import "sync"

// Pagination holds the page cursor of one mounted table. PageIndex is
// 0-based (presentation convention); the querykey layer works with 1-based
// pages, so callers build keys with PageIndex()+1. Safe for concurrent
// use; the change callback runs outside the lock.
type Pagination struct {
	mu        sync.Mutex
	kind      string
	prefs     PreferenceStore
	pageIndex int
	pageSize  int
	onChange  func()
}

// NewPagination creates the pagination state for an entity kind. The page
// size is read from the preference store when one is stored, otherwise
// DefaultPageSize applies.
func NewPagination(kind string, prefs PreferenceStore) *Pagination {
	size := DefaultPageSize
	if prefs != nil {
		if stored, ok := prefs.PageSize(kind); ok && stored > 0 {
			size = stored
		}
	}
	return &Pagination{kind: kind, prefs: prefs, pageSize: size}
}

// OnChange registers the callback invoked after every effective state
// change. The controller uses it to recompute the query key.
func (p *Pagination) OnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// PageIndex returns the current 0-based page index.
func (p *Pagination) PageIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageIndex
}

// PageSize returns the current page size.
func (p *Pagination) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

// SetPageIndex moves the cursor. Negative indexes clamp to 0.
func (p *Pagination) SetPageIndex(index int) {
	if index < 0 {
		index = 0
	}
	p.mu.Lock()
	if index == p.pageIndex {
		p.mu.Unlock()
		return
	}
	p.pageIndex = index
	p.mu.Unlock()
	p.notify()
}

// SetPageSize changes the page size, resets the page index to 0 and
// persists the choice for this entity kind. Non-positive sizes are ignored.
func (p *Pagination) SetPageSize(size int) {
	p.mu.Lock()
	if size <= 0 || size == p.pageSize {
		p.mu.Unlock()
		return
	}
	p.pageSize = size
	p.pageIndex = 0
	prefs := p.prefs
	p.mu.Unlock()
	if prefs != nil {
		// A failed preference write must not break paging.
		_ = prefs.SetPageSize(p.kind, size)
	}
	p.notify()
}

// ResetPageIndex moves back to the first page, e.g. after a filter change.
func (p *Pagination) ResetPageIndex() {
	p.SetPageIndex(0)
}

func (p *Pagination) notify() {
	p.mu.Lock()
	fn := p.onChange
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}
