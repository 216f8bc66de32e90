// Package querykey builds the canonical cache identifiers for entity
// listings.
//
// # Overview
//
// Every paginated, filterable, sortable listing in the system is described
// by a QueryKey: the entity kind, an optional parent scope for nested
// tables, a 1-based page and page size, a single free-text search value, a
// single sort column, and a set of secondary column filters.
//
// The key's String form is the sole cache index. The package therefore
// guarantees that two requests which would produce the same backend query
// serialize to equal strings, and that any difference in pagination, sort,
// search, or filters produces a different string:
//
//   - filter maps are serialized in sorted column order
//   - column names are normalized to snake_case before serialization
//   - all value text is query-escaped so it cannot collide with segment
//     syntax
//
// # Construction
//
// Build applies the documented defaults (page 0 means page 1, an empty sort
// means created_at descending) and rejects programming errors such as a
// non-positive page size with KeyConstructionError rather than clamping.
//
//	key, err := querykey.Build("users",
//		querykey.Pagination{Page: 2, Size: 10},
//		"alice",
//		querykey.Sort{SortBy: "username"},
//		querykey.Filters{"status": "active"},
//	)
//
// # Key families
//
// DetailKey, StatsKey, ListPrefix and NestedPrefix name the key families
// the invalidation package operates on. List keys always start with
// ListPrefix(kind), so a prefix delete of that family can never touch a
// detail or stats entry of the same kind.
//
// # Round-tripping
//
// Parse inverts String for any key produced by Build or BuildNested, which
// keeps the cache index debuggable: a key scraped from a log line can be
// reconstructed and re-issued.
package querykey
