package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps Redis helpers for JSON payloads. Only raw catalog rows are
// cached, never resolved display prices: a price depends on "now" and
// the current special set, so cached prices would go stale mid-campaign.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

const epochKey = "catalog:epoch"

// Key builds a versioned cache key. Admin writes bump the epoch, which
// implicitly invalidates every list/detail entry.
func (c *Cache) Key(ctx context.Context, parts ...any) string {
	epoch := "0"
	if c != nil && c.client != nil {
		if v, err := c.client.Get(ctx, epochKey).Result(); err == nil {
			epoch = v
		}
	}
	key := "catalog:v" + epoch
	for _, part := range parts {
		key += fmt.Sprintf(":%v", part)
	}
	return key
}

// Bump invalidates all cached catalog payloads.
func (c *Cache) Bump(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, epochKey).Err()
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether
// the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
