package mutation

import (
	"context"

	"github.com/apex/log"

	"github.com/goliatone/go-listing-cache/invalidation"
)

// Mutator wraps the write operations of one entity kind so that every
// successful create, update or delete reports itself to the invalidation
// map before resolving to the caller. By the time a mutation's promise
// settles, every table observing an affected key has begun its refetch.
type Mutator[T any] struct {
	kind   string
	inv    *invalidation.Invalidator
	logger log.Interface
}

// Option configures a Mutator.
type Option[T any] func(*Mutator[T])

// WithLogger sets the mutator's logger.
func WithLogger[T any](logger log.Interface) Option[T] {
	return func(m *Mutator[T]) {
		m.logger = logger
	}
}

// New creates the mutation decorator for one entity kind.
func New[T any](kind string, inv *invalidation.Invalidator, opts ...Option[T]) *Mutator[T] {
	m := &Mutator[T]{kind: kind, inv: inv, logger: log.Log}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create runs the create operation and, on success, invalidates the
// related keys of the new entity. The entity id is extracted from the
// returned record.
func (m *Mutator[T]) Create(ctx context.Context, do func(ctx context.Context) (T, error)) (T, error) {
	result, err := do(ctx)
	if err != nil {
		return result, err
	}
	m.invalidate(ctx, extractID(result))
	return result, nil
}

// Update runs the update operation and, on success, invalidates the
// related keys of the updated entity.
func (m *Mutator[T]) Update(ctx context.Context, do func(ctx context.Context) (T, error)) (T, error) {
	result, err := do(ctx)
	if err != nil {
		return result, err
	}
	m.invalidate(ctx, extractID(result))
	return result, nil
}

// Delete runs the delete operation and, on success, invalidates the
// related keys of the removed entity. The id is passed explicitly since
// delete responses carry no record.
func (m *Mutator[T]) Delete(ctx context.Context, id string, do func(ctx context.Context) error) error {
	if err := do(ctx); err != nil {
		return err
	}
	m.invalidate(ctx, id)
	return nil
}

// invalidate reports the mutation for this kind plus any additional kinds
// carried on the context.
func (m *Mutator[T]) invalidate(ctx context.Context, id string) {
	if err := m.inv.OnMutation(ctx, m.kind, id); err != nil {
		m.logger.WithError(err).WithFields(log.Fields{
			"kind": m.kind,
			"id":   id,
		}).Error("cache invalidation after mutation failed")
	}
	for _, kind := range affectedKindsFromContext(ctx) {
		if kind == m.kind {
			continue
		}
		if err := m.inv.OnMutation(ctx, kind, id); err != nil {
			m.logger.WithError(err).WithField("kind", kind).Error("cache invalidation of affected kind failed")
		}
	}
}
