package di

import (
	"github.com/apex/log"

	"github.com/goliatone/go-listing-cache/cache"
	"github.com/goliatone/go-listing-cache/invalidation"
	"github.com/goliatone/go-listing-cache/listing"
	"github.com/goliatone/go-listing-cache/mutation"
	"github.com/goliatone/go-listing-cache/querykey"
	"github.com/goliatone/go-listing-cache/tablestate"
)

// Container wires the shared pieces of the listing stack: the process-wide
// page cache, the related-keys registry, the invalidator and the durable
// preference store. Controllers and mutators are created through its
// factory functions so every instance observes the same cache and
// invalidation map.
type Container struct {
	cacheService cache.CacheService
	registry     *invalidation.Registry
	invalidator  *invalidation.Invalidator
	prefs        tablestate.PreferenceStore
	logger       log.Interface
	config       cache.Config
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every wired component.
func WithLogger(logger log.Interface) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithPreferences sets the durable preference store. Defaults to an
// in-memory store.
func WithPreferences(prefs tablestate.PreferenceStore) Option {
	return func(c *Container) {
		c.prefs = prefs
	}
}

// NewContainer creates a container over the given cache configuration and
// related-keys registry. modelKinds names every entity kind the query-key
// model will build keys for; the registry consistency check runs here, so
// a kind added to the key model but not the invalidation map (or the
// reverse) fails at wiring time instead of drifting silently.
func NewContainer(config cache.Config, registry *invalidation.Registry, modelKinds []string, opts ...Option) (*Container, error) {
	if err := registry.Check(modelKinds); err != nil {
		return nil, err
	}

	cacheService, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}

	c := &Container{
		cacheService: cacheService,
		registry:     registry,
		prefs:        tablestate.NewMemoryPreferences(),
		logger:       log.Log,
		config:       config,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.invalidator = invalidation.New(cacheService, registry, invalidation.WithLogger(c.logger))
	return c, nil
}

// NewContainerWithDefaults creates a container using the default cache
// configuration.
func NewContainerWithDefaults(registry *invalidation.Registry, modelKinds []string, opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), registry, modelKinds, opts...)
}

// CacheService returns the shared page cache.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// Registry returns the related-keys registry.
func (c *Container) Registry() *invalidation.Registry {
	return c.registry
}

// Invalidator returns the shared invalidator.
func (c *Container) Invalidator() *invalidation.Invalidator {
	return c.invalidator
}

// Preferences returns the durable preference store.
func (c *Container) Preferences() tablestate.PreferenceStore {
	return c.prefs
}

// Config returns a copy of the cache configuration.
func (c *Container) Config() cache.Config {
	return c.config
}

// NewListController mounts a listing controller for kind, wired to the
// container's cache, invalidator and preference store.
//
// Go methods cannot carry type parameters, so the controller factories are
// package-level functions taking the container first.
func NewListController[T any](c *Container, kind string, fetcher listing.Fetcher[T], opts ...listing.Option[T]) (*listing.Controller[T], error) {
	return listing.NewController(kind, fetcher, c.cacheService, controllerOpts(c, opts)...)
}

// NewNestedListController mounts a listing of childKind scoped under one
// parent entity.
func NewNestedListController[T any](c *Container, parent querykey.ParentRef, childKind string, fetcher listing.Fetcher[T], opts ...listing.Option[T]) (*listing.NestedController[T], error) {
	return listing.NewNestedController(parent, childKind, fetcher, c.cacheService, controllerOpts(c, opts)...)
}

// NewSelectableListController mounts a multi-select attachment listing.
func NewSelectableListController[T any](c *Container, kind string, fetcher listing.Fetcher[T], opts ...listing.Option[T]) (*listing.SelectableController[T], error) {
	return listing.NewSelectableController(kind, fetcher, c.cacheService, controllerOpts(c, opts)...)
}

// NewMutator creates the mutation decorator for kind, wired to the shared
// invalidator.
func NewMutator[T any](c *Container, kind string) *mutation.Mutator[T] {
	return mutation.New[T](kind, c.invalidator, mutation.WithLogger[T](c.logger))
}

func controllerOpts[T any](c *Container, opts []listing.Option[T]) []listing.Option[T] {
	base := []listing.Option[T]{
		listing.WithLogger[T](c.logger),
		listing.WithPreferences[T](c.prefs),
		listing.WithInvalidator[T](c.invalidator),
	}
	return append(base, opts...)
}
