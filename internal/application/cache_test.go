package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminsuite/user-service/internal/domain/entity"
	"github.com/adminsuite/user-service/internal/domain/repository"
)

func testUser(id, email string) *entity.User {
	return &entity.User{
		ID:       id,
		Email:    email,
		FullName: "Cache Test",
		Role:     entity.RoleUser,
		Status:   entity.StatusActive,
	}
}

func TestUserCacheRoundTrip(t *testing.T) {
	store := newMemStore()
	c := NewUserCache(store, 0)
	ctx := context.Background()
	u := testUser("u-1", "a@example.com")

	require.NoError(t, c.SetByID(ctx, u))
	require.NoError(t, c.SetByEmail(ctx, u))

	got, err := c.GetByID(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Email, got.Email)

	// email lookups normalize case
	got, err = c.GetByEmail(ctx, "A@EXAMPLE.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.ID)

	// miss is (nil, nil)
	got, err = c.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserCacheKeysArePrefixed(t *testing.T) {
	store := newMemStore()
	c := NewUserCache(store, 0)
	u := testUser("u-9", "p@example.com")

	require.NoError(t, c.SetByID(context.Background(), u))
	require.NoError(t, c.SetByEmail(context.Background(), u))

	assert.True(t, store.has("user:id:u-9"))
	assert.True(t, store.has("user:email:p@example.com"))
}

func TestUserCacheTTL(t *testing.T) {
	store := newMemStore()

	// zero or negative TTL falls back to the default
	c := NewUserCache(store, 0)
	require.NoError(t, c.SetByID(context.Background(), testUser("u-1", "a@example.com")))
	assert.Equal(t, DefaultCacheTTL, store.ttls["user:id:u-1"])

	c = NewUserCache(store, 42*time.Second)
	require.NoError(t, c.SetByID(context.Background(), testUser("u-2", "b@example.com")))
	assert.Equal(t, 42*time.Second, store.ttls["user:id:u-2"])
}

func TestUserCacheInvalidate(t *testing.T) {
	store := newMemStore()
	c := NewUserCache(store, 0)
	ctx := context.Background()
	u := testUser("u-1", "a@example.com")

	require.NoError(t, c.SetByID(ctx, u))
	require.NoError(t, c.SetByEmail(ctx, u))
	require.NoError(t, c.Invalidate(ctx, u))

	assert.False(t, store.has("user:id:u-1"))
	assert.False(t, store.has("user:email:a@example.com"))
}

func TestListKey(t *testing.T) {
	f1 := repository.Filter{Search: "ada"}
	p1 := repository.Pagination{Page: 1, PageSize: 10}

	// deterministic for equal inputs, different for different inputs
	assert.Equal(t, ListKey(f1, p1), ListKey(f1, p1))
	assert.NotEqual(t, ListKey(f1, p1), ListKey(f1, repository.Pagination{Page: 2, PageSize: 10}))
	assert.NotEqual(t, ListKey(f1, p1), ListKey(repository.Filter{Search: "bob"}, p1))
}
