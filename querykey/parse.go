package querykey

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Parse reconstructs a QueryKey from its canonical String form. It is the
// inverse of String for any key produced by Build or BuildNested:
// Parse(k.String()) yields a key equal to k.
func Parse(s string) (QueryKey, error) {
	segs := strings.Split(s, KeySeparator)
	if len(segs) < 6 {
		return QueryKey{}, fmt.Errorf("query key %q: expected at least 6 segments, got %d", s, len(segs))
	}

	key := QueryKey{Kind: segs[0]}
	if key.Kind == "" {
		return QueryKey{}, fmt.Errorf("query key %q: empty kind", s)
	}
	if segs[1] != listSegment {
		return QueryKey{}, fmt.Errorf("query key %q: not a list key", s)
	}

	rest := segs[2:]
	if strings.HasPrefix(rest[0], "parent=") {
		parent, err := parseParent(strings.TrimPrefix(rest[0], "parent="))
		if err != nil {
			return QueryKey{}, fmt.Errorf("query key %q: %w", s, err)
		}
		key.Parent = parent
		rest = rest[1:]
	}
	if len(rest) != 4 {
		return QueryKey{}, fmt.Errorf("query key %q: malformed segment list", s)
	}

	var err error
	if key.Page, err = parsePagination(rest[0]); err != nil {
		return QueryKey{}, fmt.Errorf("query key %q: %w", s, err)
	}
	if !strings.HasPrefix(rest[1], "q=") {
		return QueryKey{}, fmt.Errorf("query key %q: missing search segment", s)
	}
	if key.Search, err = url.QueryUnescape(strings.TrimPrefix(rest[1], "q=")); err != nil {
		return QueryKey{}, fmt.Errorf("query key %q: bad search value: %w", s, err)
	}
	if key.Sort, err = parseSort(rest[2]); err != nil {
		return QueryKey{}, fmt.Errorf("query key %q: %w", s, err)
	}
	if key.Filters, err = parseFilters(rest[3]); err != nil {
		return QueryKey{}, fmt.Errorf("query key %q: %w", s, err)
	}
	return key, nil
}

func parseParent(s string) (*ParentRef, error) {
	kind, id, ok := strings.Cut(s, "/")
	if !ok || kind == "" || id == "" {
		return nil, fmt.Errorf("bad parent segment %q", s)
	}
	uk, err := url.QueryUnescape(kind)
	if err != nil {
		return nil, err
	}
	uid, err := url.QueryUnescape(id)
	if err != nil {
		return nil, err
	}
	return &ParentRef{Kind: uk, ID: uid}, nil
}

func parsePagination(s string) (Pagination, error) {
	pageStr, sizeStr, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(pageStr, "page=") || !strings.HasPrefix(sizeStr, "size=") {
		return Pagination{}, fmt.Errorf("bad pagination segment %q", s)
	}
	page, err := strconv.Atoi(strings.TrimPrefix(pageStr, "page="))
	if err != nil {
		return Pagination{}, fmt.Errorf("bad page number in %q", s)
	}
	size, err := strconv.Atoi(strings.TrimPrefix(sizeStr, "size="))
	if err != nil {
		return Pagination{}, fmt.Errorf("bad page size in %q", s)
	}
	return Pagination{Page: page, Size: size}, nil
}

func parseSort(s string) (Sort, error) {
	if !strings.HasPrefix(s, "sort=") {
		return Sort{}, fmt.Errorf("bad sort segment %q", s)
	}
	col, dir, ok := strings.Cut(strings.TrimPrefix(s, "sort="), ",")
	if !ok || (dir != "asc" && dir != "desc") {
		return Sort{}, fmt.Errorf("bad sort segment %q", s)
	}
	ucol, err := url.QueryUnescape(col)
	if err != nil {
		return Sort{}, err
	}
	return Sort{SortBy: ucol, Desc: dir == "desc"}, nil
}

func parseFilters(s string) (Filters, error) {
	if !strings.HasPrefix(s, "f={") || !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("bad filter segment %q", s)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "f={"), "}")
	filters := Filters{}
	if body == "" {
		return filters, nil
	}
	for _, pair := range strings.Split(body, ",") {
		col, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("bad filter pair %q", pair)
		}
		ucol, err := url.QueryUnescape(col)
		if err != nil {
			return nil, err
		}
		uval, err := url.QueryUnescape(val)
		if err != nil {
			return nil, err
		}
		filters[ucol] = uval
	}
	return filters, nil
}
