package invalidation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-listing-cache/querykey"
)

// Family identifies a set of cache keys that go stale together. It is
// either a single concrete key (detail and stats views have one cache entry
// each) or a prefix selector matching every key of an open-ended family
// (list views, whose pagination/sort/filter tail is caller-determined and
// unbounded). Exactly one of the two fields is set.
type Family struct {
	Exact  string
	Prefix string
}

// ExactKey builds a Family holding one concrete cache key.
func ExactKey(key string) Family {
	return Family{Exact: key}
}

// PrefixFamily builds a Family selecting every cached key under prefix.
func PrefixFamily(prefix string) Family {
	return Family{Prefix: prefix}
}

// Matches reports whether the given canonical cache key belongs to the family.
func (f Family) Matches(key string) bool {
	if f.Exact != "" {
		return key == f.Exact
	}
	return f.Prefix != "" && strings.HasPrefix(key, f.Prefix)
}

// Relation declares that listings of Child are also mounted nested under a
// Parent entity (e.g. the users of one service). It is static structural
// knowledge registered once at wiring time, never derived at runtime.
type Relation struct {
	Parent string
	Child  string
}

// Registry is the Related-Keys table: for each entity kind, the ordered set
// of key families a mutation of that kind makes stale. It must be kept in
// lockstep with the querykey model; Check enforces that at wiring time.
type Registry struct {
	kinds     map[string]struct{}
	kindOrder []string
	relations []Relation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]struct{})}
}

// RegisterKind declares an entity kind. Registering the same kind twice is
// a no-op.
func (r *Registry) RegisterKind(kind string) *Registry {
	if _, ok := r.kinds[kind]; !ok {
		r.kinds[kind] = struct{}{}
		r.kindOrder = append(r.kindOrder, kind)
	}
	return r
}

// RegisterRelation declares that child listings are mounted under parent
// entities. Both kinds must also be registered with RegisterKind.
func (r *Registry) RegisterRelation(parent, child string) *Registry {
	r.relations = append(r.relations, Relation{Parent: parent, Child: child})
	return r
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []string {
	return append([]string(nil), r.kindOrder...)
}

// RelatedKeys returns, in a stable order, every key family that must be
// invalidated when the entity (kind, id) mutates:
//
//  1. the entity's detail key
//  2. the kind's stats key
//  3. the kind's list-family prefix, which also covers nested listings of
//     this kind under any parent (list keys always lead with the child kind)
//  4. for each relation where kind is the parent: the nested list prefix
//     scoped to this exact entity
//  5. for each relation where kind is the child: the parent kind's list
//     family and stats key, since membership changes show up in parent
//     listings and counters
//
// Calling it twice with the same arguments returns the same families in the
// same order. When id is empty the id-scoped families (detail key, nested
// prefixes under this entity) are omitted; no cached key can reference an
// entity without an id, so only the kind-wide families remain.
func (r *Registry) RelatedKeys(kind, id string) []Family {
	var families []Family
	if id != "" {
		families = append(families, ExactKey(querykey.DetailKey(kind, id)))
	}
	families = append(families,
		ExactKey(querykey.StatsKey(kind)),
		PrefixFamily(querykey.ListPrefix(kind)),
	)

	seen := map[string]struct{}{}
	for _, f := range families {
		seen[f.Exact+f.Prefix] = struct{}{}
	}
	add := func(f Family) {
		if _, ok := seen[f.Exact+f.Prefix]; ok {
			return
		}
		seen[f.Exact+f.Prefix] = struct{}{}
		families = append(families, f)
	}

	for _, rel := range r.relations {
		if rel.Parent == kind && id != "" {
			add(PrefixFamily(querykey.NestedPrefix(rel.Child, kind, id)))
		}
		if rel.Child == kind {
			add(PrefixFamily(querykey.ListPrefix(rel.Parent)))
			add(ExactKey(querykey.StatsKey(rel.Parent)))
		}
	}

	return families
}

// Check verifies that the registry and the query-key model agree on the set
// of entity kinds: every kind the key model builds keys for must be
// registered here, every registered kind must be known to the key model,
// and every relation must reference registered kinds on both sides. Wiring
// code and tests run it so adding a kind or relation to one side without
// the other fails fast instead of silently dropping invalidations.
func (r *Registry) Check(modelKinds []string) error {
	var problems []string

	model := make(map[string]struct{}, len(modelKinds))
	for _, kind := range modelKinds {
		model[kind] = struct{}{}
		if _, ok := r.kinds[kind]; !ok {
			problems = append(problems, fmt.Sprintf("kind %q is in the key model but not registered for invalidation", kind))
		}
	}
	for _, kind := range r.kindOrder {
		if _, ok := model[kind]; !ok {
			problems = append(problems, fmt.Sprintf("kind %q is registered for invalidation but not in the key model", kind))
		}
	}
	for _, rel := range r.relations {
		if _, ok := r.kinds[rel.Parent]; !ok {
			problems = append(problems, fmt.Sprintf("relation %s->%s references unregistered parent kind", rel.Parent, rel.Child))
		}
		if _, ok := r.kinds[rel.Child]; !ok {
			problems = append(problems, fmt.Sprintf("relation %s->%s references unregistered child kind", rel.Parent, rel.Child))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("invalidation registry out of sync with key model: %s", strings.Join(problems, "; "))
}
