package fetch

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/apex/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-listing-cache/querykey"
)

// Page is the validated result of one list request: the entities of the
// requested page and the total page count reported by the backend.
type Page[T any] struct {
	Entities  []T
	PageCount int
}

// envelope is the raw shape of the backend list response. Items stays
// unparsed until the envelope itself has validated.
type envelope struct {
	Items json.RawMessage `json:"items"`
	Pages *int            `json:"pages"`
}

func (e envelope) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Items, validation.NotNil),
		validation.Field(&e.Pages, validation.NotNil, validation.Min(0)),
	)
}

// Adapter translates query keys for one resource kind into transport
// requests and validates the responses. One adapter is built per entity
// kind; it carries no per-request state and is safe for concurrent use.
type Adapter[T any] struct {
	transport   Transport
	path        string
	searchField string
	logger      log.Interface
}

// Option configures an Adapter.
type Option[T any] func(*Adapter[T])

// WithSearchField sets the query parameter the primary free-text filter is
// sent under. Defaults to "search".
func WithSearchField[T any](field string) Option[T] {
	return func(a *Adapter[T]) {
		a.searchField = field
	}
}

// WithLogger sets the logger used for request tracing and validation
// diagnostics.
func WithLogger[T any](logger log.Interface) Option[T] {
	return func(a *Adapter[T]) {
		a.logger = logger
	}
}

// NewAdapter builds the fetch adapter for one resource, rooted at
// resourcePath (e.g. "users").
func NewAdapter[T any](transport Transport, resourcePath string, opts ...Option[T]) *Adapter[T] {
	a := &Adapter[T]{
		transport:   transport,
		path:        resourcePath,
		searchField: "search",
		logger:      log.Log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Fetch performs the list request described by key and returns the
// validated page. An empty result set is a valid page with zero entities
// and zero page count, never an error. Failures are either a
// TransportError or a SchemaValidationError; nothing is cached or exposed
// until the payload has validated.
func (a *Adapter[T]) Fetch(ctx context.Context, key querykey.QueryKey) (Page[T], error) {
	path := a.path
	if key.Parent != nil {
		path = key.Parent.Kind + "/" + key.Parent.ID + "/" + a.path
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(key.Page.Page))
	query.Set("size", strconv.Itoa(key.Page.Size))
	query.Set("order_by", key.Sort.SortBy)
	query.Set("descending", strconv.FormatBool(key.Sort.Desc))
	if key.Search != "" {
		query.Set(a.searchField, key.Search)
	}
	for col, val := range key.Filters {
		query.Set(col, val)
	}

	requestID := uuid.NewString()
	a.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       path,
		"key":        key.String(),
	}).Debug("fetching listing page")

	raw, err := a.transport.Fetch(ctx, path, query)
	if err != nil {
		return Page[T]{}, &TransportError{Path: path, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Page[T]{}, a.schemaFailure(path, requestID, err)
	}
	if err := env.Validate(); err != nil {
		return Page[T]{}, a.schemaFailure(path, requestID, err)
	}

	var entities []T
	if err := json.Unmarshal(env.Items, &entities); err != nil {
		return Page[T]{}, a.schemaFailure(path, requestID, err)
	}
	if entities == nil {
		entities = []T{}
	}

	return Page[T]{Entities: entities, PageCount: *env.Pages}, nil
}

func (a *Adapter[T]) schemaFailure(path, requestID string, diagnostics error) error {
	a.logger.WithFields(log.Fields{
		"request_id":  requestID,
		"path":        path,
		"diagnostics": diagnostics.Error(),
	}).Error("list payload failed schema validation")
	return &SchemaValidationError{Path: path, Diagnostics: diagnostics}
}
