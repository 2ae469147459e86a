package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/adminsuite/user-service/internal/domain/entity"
	"github.com/adminsuite/user-service/internal/domain/repository"
	"github.com/adminsuite/user-service/pkg/cache"
)

// Cache key prefixes.
const (
	cacheKeyUserByID    = "user:id:"
	cacheKeyUserByEmail = "user:email:"
	cacheKeyUserList    = "user:list:"
)

// DefaultCacheTTL bounds staleness of cached users and list pages.
const DefaultCacheTTL = cache.TTLMedium

// UserCache is a best-effort, key-prefixed cache for user reads. A miss is
// never an error; writes are awaited but the caller decides whether a cache
// failure matters.
//
// Invalidating every list key would need a pattern delete, which the Store
// contract does not offer; list entries simply age out within the TTL.
type UserCache struct {
	store cache.Store
	ttl   time.Duration
}

func NewUserCache(store cache.Store, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &UserCache{store: store, ttl: ttl}
}

func (c *UserCache) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	hit, err := c.store.Get(ctx, cacheKeyUserByID+id, &u)
	if err != nil || !hit {
		return nil, err
	}
	return &u, nil
}

func (c *UserCache) SetByID(ctx context.Context, u *entity.User) error {
	return c.store.Set(ctx, cacheKeyUserByID+u.ID, u, c.ttl)
}

func (c *UserCache) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	hit, err := c.store.Get(ctx, cacheKeyUserByEmail+FormatEmail(email), &u)
	if err != nil || !hit {
		return nil, err
	}
	return &u, nil
}

func (c *UserCache) SetByEmail(ctx context.Context, u *entity.User) error {
	return c.store.Set(ctx, cacheKeyUserByEmail+FormatEmail(u.Email), u, c.ttl)
}

// Invalidate drops both keys for a user.
func (c *UserCache) Invalidate(ctx context.Context, u *entity.User) error {
	if err := c.store.Delete(ctx, cacheKeyUserByID+u.ID); err != nil {
		return err
	}
	return c.store.Delete(ctx, cacheKeyUserByEmail+FormatEmail(u.Email))
}

func (c *UserCache) InvalidateByID(ctx context.Context, id string) error {
	return c.store.Delete(ctx, cacheKeyUserByID+id)
}

func (c *UserCache) GetList(ctx context.Context, key string) (*UserListPage, error) {
	var page UserListPage
	hit, err := c.store.Get(ctx, cacheKeyUserList+key, &page)
	if err != nil || !hit {
		return nil, err
	}
	return &page, nil
}

func (c *UserCache) SetList(ctx context.Context, key string, page UserListPage) error {
	return c.store.Set(ctx, cacheKeyUserList+key, page, c.ttl)
}

// ListKey derives a cache key from the serialized query parameters.
func ListKey(filter repository.Filter, page repository.Pagination) string {
	b, err := json.Marshal(struct {
		repository.Filter
		repository.Pagination
	}{filter, page})
	if err != nil {
		return "default"
	}
	return string(b)
}
