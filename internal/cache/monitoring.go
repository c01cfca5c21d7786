package cache

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// CacheStats represents cache health for the liveness endpoint
type CacheStats struct {
	RedisConnected bool  `json:"redis_connected"`
	CatalogVersion int64 `json:"catalog_version"`
	CachedVideos   int   `json:"cached_videos"`
	KeyCount       int64 `json:"total_keys"`
}

const statsScanLimit = 1000

// Stats samples the cache. A failed ping is reported, not returned.
func (c *CacheService) Stats(ctx context.Context) CacheStats {
	stats := CacheStats{}

	if err := c.redis.Ping(ctx).Err(); err != nil {
		return stats
	}
	stats.RedisConnected = true

	if version, err := c.redis.Get(ctx, CatalogVersion).Int64(); err == nil || err == redis.Nil {
		stats.CatalogVersion = version
	}

	var cursor uint64
	for stats.CachedVideos < statsScanLimit {
		keys, next, err := c.redis.Scan(ctx, cursor, "video:*", 100).Result()
		if err != nil {
			break
		}
		stats.CachedVideos += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if size, err := c.redis.DBSize(ctx).Result(); err == nil {
		stats.KeyCount = size
	}

	return stats
}
