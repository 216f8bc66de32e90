package querykey

import (
	"errors"
	"math/rand"
	"testing"
	"testing/quick"
)

func TestBuild_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		page    Pagination
		search  string
		sort    Sort
		filters Filters
		want    string
	}{
		{
			name: "page zero resolves to page one",
			kind: "users",
			page: Pagination{Page: 0, Size: 10},
			want: "users::list::page=1,size=10::q=::sort=created_at,desc::f={}",
		},
		{
			name: "explicit page preserved",
			kind: "nodes",
			page: Pagination{Page: 3, Size: 25},
			want: "nodes::list::page=3,size=25::q=::sort=created_at,desc::f={}",
		},
		{
			name:   "empty sort defaults to created_at descending",
			kind:   "services",
			page:   Pagination{Page: 1, Size: 10},
			search: "web",
			want:   "services::list::page=1,size=10::q=web::sort=created_at,desc::f={}",
		},
		{
			name: "explicit ascending sort",
			kind: "users",
			page: Pagination{Page: 1, Size: 10},
			sort: Sort{SortBy: "username", Desc: false},
			want: "users::list::page=1,size=10::q=::sort=username,asc::f={}",
		},
		{
			name: "camelCase sort column normalized",
			kind: "users",
			page: Pagination{Page: 1, Size: 10},
			sort: Sort{SortBy: "expireDate", Desc: true},
			want: "users::list::page=1,size=10::q=::sort=expire_date,desc::f={}",
		},
		{
			name:    "filters sorted by column",
			kind:    "hosts",
			page:    Pagination{Page: 1, Size: 10},
			filters: Filters{"status": "active", "inbound": "vless"},
			want:    "hosts::list::page=1,size=10::q=::sort=created_at,desc::f={inbound=vless,status=active}",
		},
		{
			name:   "search value escaped",
			kind:   "users",
			page:   Pagination{Page: 1, Size: 10},
			search: "a=b::c,d",
			want:   "users::list::page=1,size=10::q=a%3Db%3A%3Ac%2Cd::sort=created_at,desc::f={}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := Build(tt.kind, tt.page, tt.search, tt.sort, tt.filters)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		page  Pagination
		field string
	}{
		{name: "empty kind", kind: "", page: Pagination{Page: 1, Size: 10}, field: "kind"},
		{name: "zero size", kind: "users", page: Pagination{Page: 1, Size: 0}, field: "size"},
		{name: "negative size", kind: "users", page: Pagination{Page: 1, Size: -5}, field: "size"},
		{name: "negative page", kind: "users", page: Pagination{Page: -1, Size: 10}, field: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.kind, tt.page, "", Sort{}, nil)
			var kerr *KeyConstructionError
			if !errors.As(err, &kerr) {
				t.Fatalf("Build() error = %v, want KeyConstructionError", err)
			}
			if kerr.Field != tt.field {
				t.Errorf("error field = %q, want %q", kerr.Field, tt.field)
			}
		})
	}
}

// Filter insertion order must not influence the serialized key.
func TestBuild_FilterOrderInsensitive(t *testing.T) {
	a := Filters{}
	a["status"] = "active"
	a["data_limit"] = "50"
	a["owner"] = "admin1"

	b := Filters{}
	b["owner"] = "admin1"
	b["data_limit"] = "50"
	b["status"] = "active"

	ka, err := Build("users", Pagination{Page: 1, Size: 10}, "", Sort{}, a)
	if err != nil {
		t.Fatal(err)
	}
	kb, err := Build("users", Pagination{Page: 1, Size: 10}, "", Sort{}, b)
	if err != nil {
		t.Fatal(err)
	}
	if !ka.Equal(kb) {
		t.Errorf("keys differ for equivalent filters: %q vs %q", ka, kb)
	}
}

// Property: equal filter sets yield equal keys no matter what order the
// caller assembled them in, for arbitrary column names, values and search
// text. Columns are deduped by their normalized form first; two spellings
// of the same column are one filter, not two.
func TestBuild_FilterKeyEqualityProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	property := func(raw map[string]string, search string) bool {
		filters := make(Filters, len(raw))
		cols := make([]string, 0, len(raw))
		seen := make(map[string]struct{}, len(raw))
		for col, val := range raw {
			norm := toSnake(col)
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			filters[col] = val
			cols = append(cols, col)
		}

		rng.Shuffle(len(cols), func(i, j int) { cols[i], cols[j] = cols[j], cols[i] })
		shuffled := make(Filters, len(cols))
		for _, col := range cols {
			shuffled[col] = filters[col]
		}

		ka, err := Build("users", Pagination{Page: 1, Size: 10}, search, Sort{}, filters)
		if err != nil {
			return false
		}
		kb, err := Build("users", Pagination{Page: 1, Size: 10}, search, Sort{}, shuffled)
		if err != nil {
			return false
		}
		return ka.Equal(kb)
	}

	if err := quick.Check(property, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

func TestBuild_DistinctInputsDistinctKeys(t *testing.T) {
	base, err := Build("users", Pagination{Page: 1, Size: 10}, "", Sort{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	variants := []QueryKey{}
	for _, build := range []func() (QueryKey, error){
		func() (QueryKey, error) {
			return Build("users", Pagination{Page: 2, Size: 10}, "", Sort{}, nil)
		},
		func() (QueryKey, error) {
			return Build("users", Pagination{Page: 1, Size: 25}, "", Sort{}, nil)
		},
		func() (QueryKey, error) {
			return Build("users", Pagination{Page: 1, Size: 10}, "alice", Sort{}, nil)
		},
		func() (QueryKey, error) {
			return Build("users", Pagination{Page: 1, Size: 10}, "", Sort{SortBy: "username"}, nil)
		},
		func() (QueryKey, error) {
			return Build("users", Pagination{Page: 1, Size: 10}, "", Sort{}, Filters{"status": "active"})
		},
	} {
		key, err := build()
		if err != nil {
			t.Fatal(err)
		}
		variants = append(variants, key)
	}

	seen := map[string]bool{base.String(): true}
	for _, v := range variants {
		if seen[v.String()] {
			t.Errorf("duplicate key %q for distinct inputs", v)
		}
		seen[v.String()] = true
	}
}

func TestBuildNested(t *testing.T) {
	key, err := BuildNested(ParentRef{Kind: "services", ID: "42"}, "users",
		Pagination{Page: 1, Size: 10}, "", Sort{}, nil)
	if err != nil {
		t.Fatalf("BuildNested() error = %v", err)
	}

	want := "users::list::parent=services/42::page=1,size=10::q=::sort=created_at,desc::f={}"
	if got := key.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if _, err := BuildNested(ParentRef{Kind: "services"}, "users", Pagination{Page: 1, Size: 10}, "", Sort{}, nil); err == nil {
		t.Error("BuildNested() with empty parent id should fail")
	}
	if _, err := BuildNested(ParentRef{ID: "42"}, "users", Pagination{Page: 1, Size: 10}, "", Sort{}, nil); err == nil {
		t.Error("BuildNested() with empty parent kind should fail")
	}
}

func TestKeyFamilies(t *testing.T) {
	if got, want := DetailKey("users", "alice"), "users::detail::alice"; got != want {
		t.Errorf("DetailKey() = %q, want %q", got, want)
	}
	if got, want := StatsKey("users"), "users::stats"; got != want {
		t.Errorf("StatsKey() = %q, want %q", got, want)
	}
	if got, want := ListPrefix("users"), "users::list::"; got != want {
		t.Errorf("ListPrefix() = %q, want %q", got, want)
	}
	if got, want := NestedPrefix("users", "services", "42"), "users::list::parent=services/42::"; got != want {
		t.Errorf("NestedPrefix() = %q, want %q", got, want)
	}
}

// A list-family prefix must never match detail or stats keys of that kind.
func TestListPrefix_DisjointFromDetailAndStats(t *testing.T) {
	prefix := ListPrefix("users")
	for _, key := range []string{DetailKey("users", "alice"), StatsKey("users")} {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			t.Errorf("key %q unexpectedly matches list prefix %q", key, prefix)
		}
	}
}

func TestToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"createdAt", "created_at"},
		{"ExpireDate", "expire_date"},
		{"used_traffic", "used_traffic"},
		{"HTTPStatus", "http_status"},
		{"data-limit", "data_limit"},
		{"Online At", "online_at"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := toSnake(tt.in); got != tt.want {
			t.Errorf("toSnake(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
