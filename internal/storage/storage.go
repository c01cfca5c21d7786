package storage

import (
	"context"
	"errors"

	"github.com/princekumarofficial/video-service/internal/catalog"
	"github.com/princekumarofficial/video-service/internal/types"
	"github.com/princekumarofficial/video-service/internal/types/users"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type Storage interface {
	CreateUser(ctx context.Context, user users.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (users.User, error)

	CreateVideo(ctx context.Context, video types.Video) (types.Video, error)
	GetVideoByID(ctx context.Context, id string) (types.VideoWithOwner, error)
	ListVideos(ctx context.Context, q catalog.Query) ([]types.VideoWithOwner, error)
	UpdateVideoDetails(ctx context.Context, id string, details types.VideoDetails) (types.Video, error)
	DeleteVideo(ctx context.Context, id string) (types.Video, error)
	TogglePublishStatus(ctx context.Context, id string) (types.Video, error)
}
