package listing

import "github.com/goliatone/go-listing-cache/querykey"

// State names the controller's render state.
type State int

const (
	// StateLoading means no page is available for the active key yet.
	StateLoading State = iota
	// StateReady means a page is available and rendered.
	StateReady
	// StateEmpty means the fetch succeeded with zero entities; distinct
	// from StateError so the UI can render an empty-state affordance.
	StateEmpty
	// StateError means the last fetch for the active key failed; the UI
	// renders a retry affordance bound to Refetch.
	StateError
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is the read-only view of a controller published to consumers.
// Consumers only read; every change goes through the controller's state
// setters, which preserves the single-writer rule on the active key.
type Snapshot[T any] struct {
	Kind      string
	Key       string
	State     State
	Entities  []T
	PageCount int

	PageIndex     int
	PageSize      int
	Sort          querykey.Sort
	PrimaryFilter string
	Filters       querykey.Filters

	// IsLoading is true only when no data is available for the active
	// key. IsRefreshing is true while already-rendered data is being
	// refetched in the background; the UI shows an indicator instead of
	// blanking.
	IsLoading    bool
	IsRefreshing bool
	IsError      bool
	Err          error
}
