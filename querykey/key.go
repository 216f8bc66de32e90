package querykey

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeySeparator delimits the segments of a serialized query key.
const KeySeparator = "::"

// DefaultSortColumn is applied when a key is built without an explicit sort.
const DefaultSortColumn = "created_at"

// Pagination identifies one page of a listing. Page is 1-based.
type Pagination struct {
	Page int
	Size int
}

// Sort identifies the single sort column the backend is asked to order by.
type Sort struct {
	SortBy string
	Desc   bool
}

// Filters maps column names to secondary filter values. The map is
// order-insensitive in meaning; serialization sorts it so equal filter sets
// always produce equal keys.
type Filters map[string]string

// ParentRef scopes a key under a parent entity, for listings nested below
// another resource (e.g. the users of one service).
type ParentRef struct {
	Kind string
	ID   string
}

// QueryKey is the canonical identifier for one listing request: entity kind,
// optional parent scope, pagination, primary free-text search, sort, and
// secondary filters. Its String form is the sole cache index; two keys are
// interchangeable exactly when their String forms are equal.
type QueryKey struct {
	Kind    string
	Parent  *ParentRef
	Page    Pagination
	Search  string
	Sort    Sort
	Filters Filters
}

// Equal reports whether k and other index the same cache entry.
func (k QueryKey) Equal(other QueryKey) bool {
	return k.String() == other.String()
}

// String serializes the key into its canonical form:
//
//	kind::list::parent=services/42::page=2,size=10::q=alice::sort=created_at,desc::f={status=active}
//
// The parent segment is present only for nested keys. All value text is
// query-escaped so free-text search and filter values cannot collide with
// the segment syntax, and filter pairs are sorted by column name.
func (k QueryKey) String() string {
	segs := make([]string, 0, 7)
	segs = append(segs, k.Kind, listSegment)
	if k.Parent != nil {
		segs = append(segs, "parent="+url.QueryEscape(k.Parent.Kind)+"/"+url.QueryEscape(k.Parent.ID))
	}
	segs = append(segs,
		fmt.Sprintf("page=%d,size=%d", k.Page.Page, k.Page.Size),
		"q="+url.QueryEscape(k.Search),
		"sort="+url.QueryEscape(k.Sort.SortBy)+","+direction(k.Sort.Desc),
		"f={"+serializeFilters(k.Filters)+"}",
	)
	return strings.Join(segs, KeySeparator)
}

const listSegment = "list"

func direction(desc bool) string {
	if desc {
		return "desc"
	}
	return "asc"
}

func serializeFilters(f Filters) string {
	if len(f) == 0 {
		return ""
	}
	cols := make([]string, 0, len(f))
	for col := range f {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	pairs := make([]string, len(cols))
	for i, col := range cols {
		pairs[i] = url.QueryEscape(col) + "=" + url.QueryEscape(f[col])
	}
	return strings.Join(pairs, ",")
}

// DetailKey returns the cache key for a single entity's detail view.
func DetailKey(kind, id string) string {
	return kind + KeySeparator + "detail" + KeySeparator + url.QueryEscape(id)
}

// StatsKey returns the cache key for an entity kind's aggregate stats view.
func StatsKey(kind string) string {
	return kind + KeySeparator + "stats"
}

// ListPrefix returns the prefix shared by every list key of a kind,
// nested or not. It never matches detail or stats keys.
func ListPrefix(kind string) string {
	return kind + KeySeparator + listSegment + KeySeparator
}

// NestedPrefix returns the prefix shared by every list key of childKind
// scoped under one specific parent entity.
func NestedPrefix(childKind, parentKind, parentID string) string {
	return ListPrefix(childKind) + "parent=" + url.QueryEscape(parentKind) + "/" + url.QueryEscape(parentID) + KeySeparator
}
