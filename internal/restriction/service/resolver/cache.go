package resolver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"shiprestrict/internal/restriction/models"
)

const cacheKey = "shiprestrict:rules:active"

// Cache is a read-through cache for the resolved rule set. The short TTL is
// the enforcement-latency bound: a rule change is visible at checkout within
// one TTL even if invalidation is missed.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps a redis client. A nil client yields a nil Cache, and all
// methods on a nil Cache are no-ops, so callers never branch on
// configuration.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached rule set, or nil on miss or any cache error.
func (c *Cache) Get(ctx context.Context) *models.RuleSet {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return nil
	}
	var rs models.RuleSet
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil
	}
	return &rs
}

// Set stores the rule set. Cache write failures are ignored; the store read
// already succeeded.
func (c *Cache) Set(ctx context.Context, rs *models.RuleSet) {
	if c == nil || rs == nil {
		return
	}
	raw, err := json.Marshal(rs)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey, raw, c.ttl)
}

// Invalidate drops the cached rule set. Called after every settings save.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	c.client.Del(ctx, cacheKey)
}
