package listing

import (
	"github.com/goliatone/go-listing-cache/cache"
	"github.com/goliatone/go-listing-cache/querykey"
)

// NestedController lists entities scoped under one parent entity, e.g. the
// users of a service. Its query keys carry the parent reference, so pages
// of the same child kind under different parents never share cache entries,
// and the invalidation registry's relation for (parent kind, child kind)
// covers both the nested family and the parent's own related keys.
type NestedController[T any] struct {
	*Controller[T]
	parentRef querykey.ParentRef
}

// NewNestedController mounts a listing of childKind scoped under parent.
func NewNestedController[T any](parent querykey.ParentRef, childKind string, fetcher Fetcher[T], cacheService cache.CacheService, opts ...Option[T]) (*NestedController[T], error) {
	opts = append(opts, withParent[T](parent))
	inner, err := NewController(childKind, fetcher, cacheService, opts...)
	if err != nil {
		return nil, err
	}
	return &NestedController[T]{Controller: inner, parentRef: parent}, nil
}

// Parent returns the scoping parent entity.
func (n *NestedController[T]) Parent() querykey.ParentRef {
	return n.parentRef
}
