package invalidation

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-listing-cache/pkg/testsupport"
)

type fakeObserver struct {
	key       string
	refetches atomic.Int32
}

func (o *fakeObserver) ActiveKey() string { return o.key }
func (o *fakeObserver) Refetch()          { o.refetches.Add(1) }

func TestInvalidator_OnMutation_Evicts(t *testing.T) {
	mem := testsupport.NewMemoryCache()
	inv := New(mem, vpnRegistry())

	userPage3 := "users::list::page=3,size=10::q=::sort=created_at,desc::f={}"
	nestedUsers := "users::list::parent=services/42::page=1,size=10::q=::sort=created_at,desc::f={}"
	mem.Set("users::detail::alice", "detail")
	mem.Set("users::stats", "stats")
	mem.Set(userPage3, "page")
	mem.Set(nestedUsers, "nested")
	mem.Set("nodes::list::page=1,size=10::q=::sort=created_at,desc::f={}", "other kind")
	mem.Set("users::detail::bob", "unrelated detail")

	require.NoError(t, inv.OnMutation(context.Background(), "users", "alice"))

	remaining := mem.Keys()
	assert.NotContains(t, remaining, "users::detail::alice")
	assert.NotContains(t, remaining, "users::stats")
	assert.NotContains(t, remaining, userPage3)
	assert.NotContains(t, remaining, nestedUsers)
	assert.Contains(t, remaining, "nodes::list::page=1,size=10::q=::sort=created_at,desc::f={}")
	assert.Contains(t, remaining, "users::detail::bob")
}

func TestInvalidator_NotifiesMatchingObservers(t *testing.T) {
	mem := testsupport.NewMemoryCache()
	inv := New(mem, vpnRegistry())

	usersTable := &fakeObserver{key: "users::list::page=3,size=10::q=::sort=created_at,desc::f={}"}
	nodesTable := &fakeObserver{key: "nodes::list::page=1,size=10::q=::sort=created_at,desc::f={}"}
	idle := &fakeObserver{key: ""}

	unregisterUsers := inv.Register(usersTable)
	defer inv.Register(nodesTable)()
	defer inv.Register(idle)()

	require.NoError(t, inv.OnMutation(context.Background(), "users", "alice"))
	assert.Equal(t, int32(1), usersTable.refetches.Load())
	assert.Equal(t, int32(0), nodesTable.refetches.Load())
	assert.Equal(t, int32(0), idle.refetches.Load())

	// Removed observers stay silent.
	unregisterUsers()
	require.NoError(t, inv.OnMutation(context.Background(), "users", "alice"))
	assert.Equal(t, int32(1), usersTable.refetches.Load())
}

// A second invalidation with nothing cached must not fail and must leave
// the cache untouched.
func TestInvalidator_OnMutation_IdempotentEviction(t *testing.T) {
	mem := testsupport.NewMemoryCache()
	inv := New(mem, vpnRegistry())

	mem.Set("users::stats", "stats")
	require.NoError(t, inv.OnMutation(context.Background(), "users", "alice"))
	require.NoError(t, inv.OnMutation(context.Background(), "users", "alice"))
	assert.Empty(t, mem.Keys())
}
