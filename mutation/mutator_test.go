package mutation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-listing-cache/invalidation"
	"github.com/goliatone/go-listing-cache/mutation"
	"github.com/goliatone/go-listing-cache/pkg/testsupport"
	"github.com/goliatone/go-listing-cache/querykey"
)

type user struct {
	ID       string
	Username string
}

type service struct {
	Name string
}

func seededCache() *testsupport.MemoryCache {
	mc := testsupport.NewMemoryCache()
	mc.Set(querykey.DetailKey("users", "alice"), user{ID: "alice"})
	mc.Set(querykey.StatsKey("users"), 42)
	mc.Set("users::list::page=1,size=10::q=::sort=created_at,desc::f={}", []user{})
	mc.Set(querykey.DetailKey("services", "svc-1"), service{Name: "svc-1"})
	mc.Set("services::list::page=1,size=10::q=::sort=created_at,desc::f={}", []service{})
	return mc
}

func usersInvalidator(mc *testsupport.MemoryCache) *invalidation.Invalidator {
	reg := invalidation.NewRegistry()
	reg.RegisterKind("users").RegisterKind("services")
	reg.RegisterRelation("users", "services")
	return invalidation.New(mc, reg)
}

func TestMutator_CreateInvalidatesOnSuccess(t *testing.T) {
	mc := seededCache()
	mut := mutation.New[user]("users", usersInvalidator(mc))

	created, err := mut.Create(context.Background(), func(ctx context.Context) (user, error) {
		return user{ID: "bob", Username: "bob"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", created.ID)

	keys := mc.Keys()
	assert.NotContains(t, keys, querykey.StatsKey("users"))
	assert.NotContains(t, keys, "users::list::page=1,size=10::q=::sort=created_at,desc::f={}")
	assert.Contains(t, keys, querykey.DetailKey("users", "alice"), "other entities' detail keys survive")
}

func TestMutator_UpdateEvictsDetailKey(t *testing.T) {
	mc := seededCache()
	mut := mutation.New[user]("users", usersInvalidator(mc))

	_, err := mut.Update(context.Background(), func(ctx context.Context) (user, error) {
		return user{ID: "alice", Username: "alice2"}, nil
	})
	require.NoError(t, err)

	assert.NotContains(t, mc.Keys(), querykey.DetailKey("users", "alice"))
}

func TestMutator_FailedMutationLeavesCacheAlone(t *testing.T) {
	mc := seededCache()
	mut := mutation.New[user]("users", usersInvalidator(mc))
	before := len(mc.Keys())

	_, err := mut.Create(context.Background(), func(ctx context.Context) (user, error) {
		return user{}, errors.New("boom")
	})
	require.Error(t, err)

	err = mut.Delete(context.Background(), "alice", func(ctx context.Context) error {
		return errors.New("boom")
	})
	require.Error(t, err)

	assert.Len(t, mc.Keys(), before)
}

func TestMutator_DeleteEvictsFamily(t *testing.T) {
	mc := seededCache()
	mut := mutation.New[user]("users", usersInvalidator(mc))

	require.NoError(t, mut.Delete(context.Background(), "alice", func(ctx context.Context) error {
		return nil
	}))

	keys := mc.Keys()
	assert.NotContains(t, keys, querykey.DetailKey("users", "alice"))
	assert.NotContains(t, keys, querykey.StatsKey("users"))
	assert.NotContains(t, keys, "users::list::page=1,size=10::q=::sort=created_at,desc::f={}")
}

func TestMutator_AffectedKindsFromContext(t *testing.T) {
	mc := seededCache()
	mut := mutation.New[user]("users", usersInvalidator(mc))

	ctx := mutation.WithAffectedKinds(context.Background(), "services", "users")
	_, err := mut.Update(ctx, func(ctx context.Context) (user, error) {
		return user{ID: "alice"}, nil
	})
	require.NoError(t, err)

	keys := mc.Keys()
	assert.NotContains(t, keys, "services::list::page=1,size=10::q=::sort=created_at,desc::f={}")
	assert.NotContains(t, keys, querykey.StatsKey("services"))
}

func TestMutator_IDFallbackKeepsListEviction(t *testing.T) {
	type anonymous struct{ Payload string }

	mc := seededCache()
	mut := mutation.New[anonymous]("users", usersInvalidator(mc))

	_, err := mut.Create(context.Background(), func(ctx context.Context) (anonymous, error) {
		return anonymous{Payload: "x"}, nil
	})
	require.NoError(t, err)

	keys := mc.Keys()
	assert.NotContains(t, keys, "users::list::page=1,size=10::q=::sort=created_at,desc::f={}")
	assert.Contains(t, keys, querykey.DetailKey("users", "alice"), "no id means no detail key to evict")
}

func TestMutator_NameFieldsServeAsID(t *testing.T) {
	tests := []struct {
		name   string
		record any
		want   string
	}{
		{name: "id field", record: user{ID: "u1", Username: "alice"}, want: "u1"},
		{name: "username fallback", record: user{Username: "alice"}, want: "alice"},
		{name: "name fallback", record: service{Name: "svc-1"}, want: "svc-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := testsupport.NewMemoryCache()
			detail := querykey.DetailKey("users", tt.want)
			mc.Set(detail, tt.record)

			reg := invalidation.NewRegistry()
			reg.RegisterKind("users")
			mut := mutation.New[any]("users", invalidation.New(mc, reg))

			_, err := mut.Update(context.Background(), func(ctx context.Context) (any, error) {
				return tt.record, nil
			})
			require.NoError(t, err)
			assert.NotContains(t, mc.Keys(), detail)
		})
	}
}
