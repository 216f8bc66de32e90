package fetch

import "fmt"

// TransportError wraps a network or HTTP failure reported by the Transport
// collaborator. It surfaces as the controller's error state with a retry
// affordance; the fetch layer never retries on its own.
type TransportError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error fetching %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying transport failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// SchemaValidationError reports a backend payload whose shape does not
// match the list-endpoint contract. Diagnostics carries the original
// validation output; the payload is never partially exposed to the cache.
type SchemaValidationError struct {
	Path        string
	Diagnostics error
}

// Error implements the error interface.
func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("invalid list payload from %s: %v", e.Path, e.Diagnostics)
}

// Unwrap returns the validation diagnostics.
func (e *SchemaValidationError) Unwrap() error {
	return e.Diagnostics
}
