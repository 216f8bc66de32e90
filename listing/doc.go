// Package listing composes the table-state units, a fetch adapter and the
// shared cache into one coherent listing surface per mounted table.
//
// # State machine
//
// A controller is always in one of four states. Loading: no page exists
// for the active key yet. Ready: a fresh page is rendered; a background
// refetch may be in flight, indicated on the snapshot, and the rendered
// data is never blanked. Empty: the fetch succeeded with zero entities.
// Error: the last fetch failed; retry re-issues the same key and is always
// an explicit action, never automatic.
//
// Any state-unit change recomputes the query key. A key the cache already
// holds renders immediately (returning to a previously visited page costs
// nothing); a miss transitions to Loading and resolves through the cache's
// read-through path.
//
// # Ordering
//
// Overlapping fetches are reconciled by key identity: a response is applied
// only if its key is still the active key of a live controller, so a slow
// response for an abandoned key can never clobber the current one, and
// nothing is applied after Close.
//
// # Consumption
//
// The controller is handed to consumers by reference; they read snapshots
// (or Subscribe for pushes) and mutate only through the exposed state
// units. Variant controllers cover parent-scoped listings
// (NestedController) and multi-select attachment (SelectableController).
package listing
