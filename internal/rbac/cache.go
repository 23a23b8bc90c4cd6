package rbac

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "rbac:role"

// Cache keeps per-role permission sets in Redis. The database stays the
// source of truth; the cache only bounds resolver latency under login bursts.
// A nil Cache (or nil client) degrades to pass-through.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(roleID int64) string {
	return fmt.Sprintf("%s:%d:perms", cacheKeyPrefix, roleID)
}

// GetRolePermissions loads the cached permission names for a role. The bool
// reports a hit; cache errors count as misses.
func (c *Cache) GetRolePermissions(ctx context.Context, roleID int64) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(roleID)).Bytes()
	if err != nil {
		return nil, false
	}
	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, false
	}
	return perms, true
}

// SetRolePermissions stores the permission names for a role.
func (c *Cache) SetRolePermissions(ctx context.Context, roleID int64, perms []string) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(roleID), raw, c.ttl).Err()
}

// Invalidate drops the cached entry for a role.
func (c *Cache) Invalidate(ctx context.Context, roleID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey(roleID)).Err()
}
