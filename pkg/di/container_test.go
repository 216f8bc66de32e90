package di_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-listing-cache/cache"
	"github.com/goliatone/go-listing-cache/fetch"
	"github.com/goliatone/go-listing-cache/invalidation"
	"github.com/goliatone/go-listing-cache/listing"
	"github.com/goliatone/go-listing-cache/pkg/di"
	"github.com/goliatone/go-listing-cache/querykey"
	"github.com/goliatone/go-listing-cache/tablestate"
)

type account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type fetcherFunc[T any] func(ctx context.Context, key querykey.QueryKey) (fetch.Page[T], error)

func (f fetcherFunc[T]) Fetch(ctx context.Context, key querykey.QueryKey) (fetch.Page[T], error) {
	return f(ctx, key)
}

func testRegistry() *invalidation.Registry {
	r := invalidation.NewRegistry()
	r.RegisterKind("users").RegisterKind("services")
	r.RegisterRelation("users", "services")
	return r
}

func testConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.TTL = time.Minute
	return cfg
}

func TestNewContainer_RegistryDrift(t *testing.T) {
	tests := []struct {
		name       string
		modelKinds []string
	}{
		{name: "kind missing from registry", modelKinds: []string{"users", "services", "hosts"}},
		{name: "kind missing from model", modelKinds: []string{"users"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := di.NewContainer(testConfig(), testRegistry(), tt.modelKinds)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "out of sync")
		})
	}
}

func TestNewContainer_Wiring(t *testing.T) {
	c, err := di.NewContainer(testConfig(), testRegistry(), []string{"users", "services"})
	require.NoError(t, err)

	require.NotNil(t, c.CacheService())
	require.NotNil(t, c.Invalidator())
	require.NotNil(t, c.Registry())
	require.IsType(t, &tablestate.MemoryPreferences{}, c.Preferences())
	assert.Equal(t, time.Minute, c.Config().TTL)
}

func TestNewListController_SharesCache(t *testing.T) {
	c, err := di.NewContainer(testConfig(), testRegistry(), []string{"users", "services"})
	require.NoError(t, err)

	var calls atomic.Int32
	fetcher := fetcherFunc[account](func(ctx context.Context, key querykey.QueryKey) (fetch.Page[account], error) {
		calls.Add(1)
		return fetch.Page[account]{Entities: []account{{ID: "u1", Username: "alice"}}, PageCount: 1}, nil
	})

	first, err := di.NewListController(c, "users", fetcher)
	require.NoError(t, err)
	defer first.Close()
	waitReady(t, first)

	second, err := di.NewListController(c, "users", fetcher)
	require.NoError(t, err)
	defer second.Close()
	waitReady(t, second)

	assert.Equal(t, int32(1), calls.Load(), "second mount should be served from the shared cache")
}

func TestNewNestedListController_ParentScopedKey(t *testing.T) {
	c, err := di.NewContainer(testConfig(), testRegistry(), []string{"users", "services"})
	require.NoError(t, err)

	fetcher := fetcherFunc[account](func(ctx context.Context, key querykey.QueryKey) (fetch.Page[account], error) {
		return fetch.Page[account]{Entities: []account{}, PageCount: 0}, nil
	})

	parent := querykey.ParentRef{Kind: "users", ID: "alice"}
	ctrl, err := di.NewNestedListController(c, parent, "services", fetcher)
	require.NoError(t, err)
	defer ctrl.Close()

	assert.Equal(t, parent, ctrl.Parent())
	assert.Contains(t, ctrl.ActiveKey(), "services::list::parent=users/alice::")
}

func TestNewMutator_EvictsThroughSharedInvalidator(t *testing.T) {
	c, err := di.NewContainer(testConfig(), testRegistry(), []string{"users", "services"})
	require.NoError(t, err)

	ctx := context.Background()
	detailKey := querykey.DetailKey("users", "alice")
	_, err = cache.GetOrFetch(ctx, c.CacheService(), detailKey, func(ctx context.Context) (account, error) {
		return account{ID: "alice", Username: "alice"}, nil
	})
	require.NoError(t, err)

	mut := di.NewMutator[account](c, "users")
	require.NoError(t, mut.Delete(ctx, "alice", func(ctx context.Context) error { return nil }))

	_, ok := cache.Peek[account](ctx, c.CacheService(), detailKey)
	assert.False(t, ok, "detail key should be evicted after delete")
}

func waitReady[T any](t *testing.T, ctrl *listing.Controller[T]) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap := ctrl.Snapshot()
		return snap.State == listing.StateReady || snap.State == listing.StateEmpty
	}, 2*time.Second, 5*time.Millisecond)
}
