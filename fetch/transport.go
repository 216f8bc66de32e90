package fetch

import (
	"context"
	"net/url"
)

// Transport is the HTTP collaborator that performs list requests. It owns
// auth, headers, retries and timeouts; the fetch layer only shapes the
// resource path and query parameters and parses the returned payload.
type Transport interface {
	Fetch(ctx context.Context, resourcePath string, query url.Values) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, resourcePath string, query url.Values) ([]byte, error)

// Fetch implements Transport.
func (f TransportFunc) Fetch(ctx context.Context, resourcePath string, query url.Values) ([]byte, error) {
	return f(ctx, resourcePath, query)
}
