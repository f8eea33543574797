// README: Redis read-through cache in front of a registration Directory.
package registration

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "mtop:registered:"

type CachedDirectory struct {
	next  Directory
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedDirectory(next Directory, rdb *redis.Client, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{next: next, redis: rdb, ttl: ttl}
}

// IsRegistered serves from Redis when possible. Cache failures fall through to
// the directory; lookup failures are never cached.
func (c *CachedDirectory) IsRegistered(ctx context.Context, mtopID string) (bool, error) {
	key := cacheKeyPrefix + mtopID
	if v, err := c.redis.Get(ctx, key).Result(); err == nil {
		return v == "1", nil
	}

	ok, err := c.next.IsRegistered(ctx, mtopID)
	if err != nil {
		return false, err
	}
	val := "0"
	if ok {
		val = "1"
	}
	_ = c.redis.Set(ctx, key, val, c.ttl).Err()
	return ok, nil
}
