// Package memory is a process-local Storage used by tests and the
// "memory" storage driver. It follows the same catalog semantics as postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/video-service/internal/catalog"
	"github.com/princekumarofficial/video-service/internal/storage"
	"github.com/princekumarofficial/video-service/internal/types"
	"github.com/princekumarofficial/video-service/internal/types/users"
)

type Memory struct {
	mu     sync.RWMutex
	users  map[string]users.User
	videos map[string]types.Video
	now    func() time.Time
}

func New() *Memory {
	return &Memory{
		users:  make(map[string]users.User),
		videos: make(map[string]types.Video),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) CreateUser(ctx context.Context, user users.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return "", storage.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = m.now()
	}
	m.users[user.ID] = user
	return user.ID, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return users.User{}, storage.ErrNotFound
}

func (m *Memory) CreateVideo(ctx context.Context, video types.Video) (types.Video, error) {
	if err := ctx.Err(); err != nil {
		return types.Video{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	if _, exists := m.videos[video.ID]; exists {
		return types.Video{}, storage.ErrDuplicate
	}
	now := m.now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	if video.UpdatedAt.IsZero() {
		video.UpdatedAt = video.CreatedAt
	}
	m.videos[video.ID] = video
	return video, nil
}

func (m *Memory) GetVideoByID(ctx context.Context, id string) (types.VideoWithOwner, error) {
	if err := ctx.Err(); err != nil {
		return types.VideoWithOwner{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.videos[id]
	if !ok {
		return types.VideoWithOwner{}, storage.ErrNotFound
	}
	return m.withOwner(v), nil
}

// ListVideos runs filter, sort, window, then join, in that order.
func (m *Memory) ListVideos(ctx context.Context, q catalog.Query) ([]types.VideoWithOwner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]types.Video, 0, len(m.videos))
	for _, v := range m.videos {
		if q.Matches(v) {
			matched = append(matched, v)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return q.Less(matched[i], matched[j]) })

	result := make([]types.VideoWithOwner, 0, q.Limit)
	if q.Skip >= len(matched) {
		return result, nil
	}
	end := min(q.Skip+q.Limit, len(matched))
	for _, v := range matched[q.Skip:end] {
		result = append(result, m.withOwner(v))
	}
	return result, nil
}

func (m *Memory) UpdateVideoDetails(ctx context.Context, id string, details types.VideoDetails) (types.Video, error) {
	if err := ctx.Err(); err != nil {
		return types.Video{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.videos[id]
	if !ok {
		return types.Video{}, storage.ErrNotFound
	}
	v.Title = details.Title
	v.Description = details.Description
	v.ThumbnailURL = details.ThumbnailURL
	v.ThumbnailKey = details.ThumbnailKey
	v.UpdatedAt = m.now()
	m.videos[id] = v
	return v, nil
}

func (m *Memory) DeleteVideo(ctx context.Context, id string) (types.Video, error) {
	if err := ctx.Err(); err != nil {
		return types.Video{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.videos[id]
	if !ok {
		return types.Video{}, storage.ErrNotFound
	}
	delete(m.videos, id)
	return v, nil
}

func (m *Memory) TogglePublishStatus(ctx context.Context, id string) (types.Video, error) {
	if err := ctx.Err(); err != nil {
		return types.Video{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.videos[id]
	if !ok {
		return types.Video{}, storage.ErrNotFound
	}
	v.IsPublished = !v.IsPublished
	v.UpdatedAt = m.now()
	m.videos[id] = v
	return v, nil
}

// withOwner must be called with m.mu held.
func (m *Memory) withOwner(v types.Video) types.VideoWithOwner {
	out := types.VideoWithOwner{Video: v}
	if u, ok := m.users[v.OwnerID]; ok {
		out.Owner = &types.OwnerProjection{
			Username: u.Username,
			Email:    u.Email,
			Avatar:   u.Avatar,
		}
	}
	return out
}
