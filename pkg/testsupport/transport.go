package testsupport

import (
	"context"
	"net/url"
	"sync"
)

// TransportCall records one request seen by a FakeTransport.
type TransportCall struct {
	Path  string
	Query url.Values
}

// FakeTransport is a scripted fetch.Transport: requests are answered by the
// handler and recorded for assertions.
type FakeTransport struct {
	mu      sync.Mutex
	handler func(path string, query url.Values) ([]byte, error)
	calls   []TransportCall
}

// NewFakeTransport creates a transport answering with handler.
func NewFakeTransport(handler func(path string, query url.Values) ([]byte, error)) *FakeTransport {
	return &FakeTransport{handler: handler}
}

// Fetch implements fetch.Transport.
func (t *FakeTransport) Fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	t.mu.Lock()
	cloned := url.Values{}
	for k, vs := range query {
		cloned[k] = append([]string(nil), vs...)
	}
	t.calls = append(t.calls, TransportCall{Path: path, Query: cloned})
	handler := t.handler
	t.mu.Unlock()

	return handler(path, query)
}

// SetHandler swaps the response handler mid-test.
func (t *FakeTransport) SetHandler(handler func(path string, query url.Values) ([]byte, error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
}

// Calls returns the recorded requests.
func (t *FakeTransport) Calls() []TransportCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TransportCall(nil), t.calls...)
}

// CallCount returns the number of recorded requests.
func (t *FakeTransport) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}
