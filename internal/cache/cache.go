package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin namespaced wrapper over redis, shared by the auth
// middleware (user snapshots) and the rate limiter (counters).
type Cache struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration) error {
	return c.client.Set(ctx, namespace+":"+key, value, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, namespace, key string) (string, error) {
	return c.client.Get(ctx, namespace+":"+key).Result()
}

func (c *Cache) Delete(ctx context.Context, namespace, key string) error {
	return c.client.Del(ctx, namespace+":"+key).Err()
}

func (c *Cache) TTL(ctx context.Context, namespace, key string) (time.Duration, error) {
	return c.client.TTL(ctx, namespace+":"+key).Result()
}

// IncrWithExpire bumps a counter, starting its window on first use.
func (c *Cache) IncrWithExpire(ctx context.Context, namespace, key string, window time.Duration) (int64, error) {
	countKey := namespace + ":" + key

	cnt, err := c.client.Incr(ctx, countKey).Result()
	if err != nil {
		return 0, err
	}
	if cnt == 1 {
		_ = c.client.Expire(ctx, countKey, window).Err()
	}
	return cnt, nil
}
