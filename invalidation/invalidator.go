package invalidation

import (
	"context"
	"sync/atomic"

	"github.com/apex/log"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-listing-cache/cache"
)

// Observer is a mounted table watching one cache key. Controllers register
// themselves so a mutation elsewhere in the process can trigger their
// background refetch; Refetch must not block.
type Observer interface {
	ActiveKey() string
	Refetch()
}

// Invalidator applies the Related-Keys table to the shared cache after a
// mutation and wakes the observers whose active key became stale. It is the
// only path through which one controller instance may affect another's
// keys.
type Invalidator struct {
	cache     cache.CacheService
	registry  *Registry
	logger    log.Interface
	observers *xsync.MapOf[uint64, Observer]
	nextID    atomic.Uint64
}

// Option configures an Invalidator.
type Option func(*Invalidator)

// WithLogger sets the logger used for invalidation tracing.
func WithLogger(logger log.Interface) Option {
	return func(i *Invalidator) {
		i.logger = logger
	}
}

// New creates an Invalidator over the shared cache and related-keys registry.
func New(cacheService cache.CacheService, registry *Registry, opts ...Option) *Invalidator {
	inv := &Invalidator{
		cache:     cacheService,
		registry:  registry,
		logger:    log.Log,
		observers: xsync.NewMapOf[uint64, Observer](),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Register adds an observer and returns the function that removes it.
// Controllers call this on mount and defer the removal to unmount.
func (i *Invalidator) Register(o Observer) func() {
	id := i.nextID.Add(1)
	i.observers.Store(id, o)
	return func() {
		i.observers.Delete(id)
	}
}

// Registry returns the related-keys registry the invalidator consults.
func (i *Invalidator) Registry() *Registry {
	return i.registry
}

// OnMutation must be called by every mutation collaborator after a
// successful create, update or delete of entity (kind, id), before the
// mutation resolves to its caller. It evicts every related key family and
// triggers a background refetch on observers whose active key was covered.
// Invoking it twice in a row is a no-op the second time: the keys are
// already gone and in-flight refetches absorb the duplicate wake-up.
func (i *Invalidator) OnMutation(ctx context.Context, kind, id string) error {
	families := i.registry.RelatedKeys(kind, id)

	var exact []string
	for _, family := range families {
		if family.Exact != "" {
			exact = append(exact, family.Exact)
			continue
		}
		if err := i.cache.DeleteByPrefix(ctx, family.Prefix); err != nil {
			return err
		}
	}
	if len(exact) > 0 {
		if err := i.cache.InvalidateKeys(ctx, exact); err != nil {
			return err
		}
	}

	notified := 0
	i.observers.Range(func(_ uint64, o Observer) bool {
		key := o.ActiveKey()
		if key == "" {
			return true
		}
		for _, family := range families {
			if family.Matches(key) {
				o.Refetch()
				notified++
				break
			}
		}
		return true
	})

	i.logger.WithFields(log.Fields{
		"kind":     kind,
		"id":       id,
		"families": len(families),
		"notified": notified,
	}).Debug("cache invalidated after mutation")

	return nil
}
