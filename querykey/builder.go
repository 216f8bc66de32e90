package querykey

// KeyConstructionError reports an invalid input to Build. It indicates a
// caller bug, never a runtime condition, so Build fails fast instead of
// clamping the value.
type KeyConstructionError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *KeyConstructionError) Error() string {
	return "query key error in field " + e.Field + ": " + e.Message
}

// Build constructs the canonical key for a (kind, pagination, search, sort,
// filters) combination. Normalization rules:
//
//   - page 0 is treated as unset and resolves to page 1; negative pages are
//     rejected (page 0 must never reach the backend)
//   - a zero or negative page size is rejected
//   - an empty sort resolves to created_at descending
//   - sort columns and filter columns are normalized to snake_case
//   - nil filters resolve to an empty set
//
// Two calls with logically equivalent inputs return keys with equal String
// forms regardless of filter map iteration order.
func Build(kind string, page Pagination, search string, srt Sort, filters Filters) (QueryKey, error) {
	if kind == "" {
		return QueryKey{}, &KeyConstructionError{Field: "kind", Message: "must not be empty"}
	}
	if page.Page < 0 {
		return QueryKey{}, &KeyConstructionError{Field: "page", Message: "must not be negative"}
	}
	if page.Page == 0 {
		page.Page = 1
	}
	if page.Size <= 0 {
		return QueryKey{}, &KeyConstructionError{Field: "size", Message: "must be greater than 0"}
	}

	if srt.SortBy == "" {
		srt = Sort{SortBy: DefaultSortColumn, Desc: true}
	} else {
		srt.SortBy = toSnake(srt.SortBy)
	}

	normalized := make(Filters, len(filters))
	for col, val := range filters {
		normalized[toSnake(col)] = val
	}

	return QueryKey{
		Kind:    kind,
		Page:    page,
		Search:  search,
		Sort:    srt,
		Filters: normalized,
	}, nil
}

// BuildNested constructs a key scoped under a parent entity. The same
// normalization as Build applies; additionally the parent reference must be
// fully specified.
func BuildNested(parent ParentRef, childKind string, page Pagination, search string, srt Sort, filters Filters) (QueryKey, error) {
	if parent.Kind == "" {
		return QueryKey{}, &KeyConstructionError{Field: "parent.kind", Message: "must not be empty"}
	}
	if parent.ID == "" {
		return QueryKey{}, &KeyConstructionError{Field: "parent.id", Message: "must not be empty"}
	}

	key, err := Build(childKind, page, search, srt, filters)
	if err != nil {
		return QueryKey{}, err
	}
	key.Parent = &ParentRef{Kind: parent.Kind, ID: parent.ID}
	return key, nil
}
