package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/video-service/internal/catalog"
	"github.com/princekumarofficial/video-service/internal/storage"
	"github.com/princekumarofficial/video-service/internal/types"
	"github.com/princekumarofficial/video-service/internal/types/users"
)

// Cache key patterns
const (
	VideoKey       = "video:%s"            // video:videoID
	ListKey        = "videos:list:%d:%s"   // videos:list:version:queryHash
	CatalogVersion = "videos:catalog:version"
)

const DefaultTTL = 30 * time.Second

// CacheService wraps storage with Redis cache-aside for video reads. Every
// write drops the video's entry and bumps the catalog version, which orphans
// all cached list pages at once.
type CacheService struct {
	storage storage.Storage
	redis   *redis.Client
	ttl     time.Duration
}

var _ storage.Storage = (*CacheService)(nil)

// NewCacheService creates a new cache service
func NewCacheService(storage storage.Storage, redisClient *redis.Client, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CacheService{
		storage: storage,
		redis:   redisClient,
		ttl:     ttl,
	}
}

// entry keeps the object keys that the API representation hides.
type entry struct {
	Video        types.Video            `json:"video"`
	MediaKey     string                 `json:"media_key"`
	ThumbnailKey string                 `json:"thumbnail_key"`
	Owner        *types.OwnerProjection `json:"owner"`
}

func toEntry(v types.VideoWithOwner) entry {
	return entry{Video: v.Video, MediaKey: v.MediaKey, ThumbnailKey: v.ThumbnailKey, Owner: v.Owner}
}

func (e entry) video() types.VideoWithOwner {
	v := types.VideoWithOwner{Video: e.Video, Owner: e.Owner}
	v.MediaKey = e.MediaKey
	v.ThumbnailKey = e.ThumbnailKey
	return v
}

func (c *CacheService) GetVideoByID(ctx context.Context, id string) (types.VideoWithOwner, error) {
	key := fmt.Sprintf(VideoKey, id)

	var cached entry
	if c.load(ctx, key, &cached) {
		return cached.video(), nil
	}

	video, err := c.storage.GetVideoByID(ctx, id)
	if err != nil {
		return video, err
	}

	c.store(ctx, key, toEntry(video))
	return video, nil
}

func (c *CacheService) ListVideos(ctx context.Context, q catalog.Query) ([]types.VideoWithOwner, error) {
	version, err := c.redis.Get(ctx, CatalogVersion).Int64()
	if err != nil && err != redis.Nil {
		return c.storage.ListVideos(ctx, q)
	}
	key := fmt.Sprintf(ListKey, version, queryHash(q))

	var cached []entry
	if c.load(ctx, key, &cached) {
		videos := make([]types.VideoWithOwner, len(cached))
		for i, e := range cached {
			videos[i] = e.video()
		}
		return videos, nil
	}

	videos, err := c.storage.ListVideos(ctx, q)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, len(videos))
	for i, v := range videos {
		entries[i] = toEntry(v)
	}
	c.store(ctx, key, entries)
	return videos, nil
}

func (c *CacheService) CreateVideo(ctx context.Context, video types.Video) (types.Video, error) {
	created, err := c.storage.CreateVideo(ctx, video)
	if err != nil {
		return created, err
	}
	c.invalidate(ctx, "")
	return created, nil
}

func (c *CacheService) UpdateVideoDetails(ctx context.Context, id string, details types.VideoDetails) (types.Video, error) {
	video, err := c.storage.UpdateVideoDetails(ctx, id, details)
	if err != nil {
		return video, err
	}
	c.invalidate(ctx, id)
	return video, nil
}

func (c *CacheService) DeleteVideo(ctx context.Context, id string) (types.Video, error) {
	video, err := c.storage.DeleteVideo(ctx, id)
	if err != nil {
		return video, err
	}
	c.invalidate(ctx, id)
	return video, nil
}

func (c *CacheService) TogglePublishStatus(ctx context.Context, id string) (types.Video, error) {
	video, err := c.storage.TogglePublishStatus(ctx, id)
	if err != nil {
		return video, err
	}
	c.invalidate(ctx, id)
	return video, nil
}

func (c *CacheService) CreateUser(ctx context.Context, user users.User) (string, error) {
	return c.storage.CreateUser(ctx, user)
}

func (c *CacheService) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	return c.storage.GetUserByEmail(ctx, email)
}

// invalidate runs after a successful write, so it ignores the caller's
// cancellation.
func (c *CacheService) invalidate(ctx context.Context, videoID string) {
	ctx = context.WithoutCancel(ctx)

	pipe := c.redis.TxPipeline()
	if videoID != "" {
		pipe.Del(ctx, fmt.Sprintf(VideoKey, videoID))
	}
	pipe.Incr(ctx, CatalogVersion)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("failed to invalidate video cache", slog.String("video_id", videoID), slog.String("error", err.Error()))
	}
}

func (c *CacheService) load(ctx context.Context, key string, dst interface{}) bool {
	cached, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(cached, dst) == nil
}

func (c *CacheService) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("failed to cache value", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func queryHash(q catalog.Query) string {
	raw := fmt.Sprintf("%d|%d|%s|%s|%s|%d|%s",
		q.Skip, q.Limit, q.TextFilter, q.SearchField, q.SortBy, q.SortDirection, q.OwnerFilter)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
