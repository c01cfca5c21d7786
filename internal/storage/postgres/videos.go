package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/princekumarofficial/video-service/internal/catalog"
	"github.com/princekumarofficial/video-service/internal/storage"
	"github.com/princekumarofficial/video-service/internal/types"
)

// videoRow is a video joined with its owner. Owner columns are NULL when the
// owner does not resolve.
type videoRow struct {
	types.Video
	OwnerUsername sql.NullString `db:"owner_username"`
	OwnerEmail    sql.NullString `db:"owner_email"`
	OwnerAvatar   sql.NullString `db:"owner_avatar"`
}

func (r videoRow) toVideoWithOwner() types.VideoWithOwner {
	out := types.VideoWithOwner{Video: r.Video}
	if r.OwnerUsername.Valid && r.OwnerEmail.Valid {
		out.Owner = &types.OwnerProjection{
			Username: r.OwnerUsername.String,
			Email:    r.OwnerEmail.String,
			Avatar:   r.OwnerAvatar.String,
		}
	}
	return out
}

const returningVideo = `RETURNING id, title, description, media_url, media_key, thumbnail_url, thumbnail_key,
	duration, owner_id, is_published, created_at, updated_at`

func (p *Postgres) CreateVideo(ctx context.Context, video types.Video) (types.Video, error) {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}

	query := `
	INSERT INTO videos (id, title, description, media_url, media_key, thumbnail_url, thumbnail_key, duration, owner_id, is_published)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	` + returningVideo

	var created types.Video
	err := p.Db.GetContext(ctx, &created, query,
		video.ID,
		video.Title,
		video.Description,
		video.MediaURL,
		video.MediaKey,
		video.ThumbnailURL,
		video.ThumbnailKey,
		video.Duration,
		video.OwnerID,
		video.IsPublished,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Video{}, storage.ErrDuplicate
		}
		return types.Video{}, fmt.Errorf("insert video: %w", err)
	}

	return created, nil
}

func (p *Postgres) GetVideoByID(ctx context.Context, id string) (types.VideoWithOwner, error) {
	if !catalog.IsValidID(id) {
		return types.VideoWithOwner{}, storage.ErrNotFound
	}

	query := `SELECT ` + videoColumns + `, ` + ownerColumns + `
	FROM videos v
	LEFT JOIN users u ON u.id = v.owner_id
	WHERE v.id = $1`

	var row videoRow
	err := p.Db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return types.VideoWithOwner{}, storage.ErrNotFound
	}
	if err != nil {
		return types.VideoWithOwner{}, fmt.Errorf("select video: %w", err)
	}

	return row.toVideoWithOwner(), nil
}

// ListVideos returns an empty slice, not an error, when nothing matches.
func (p *Postgres) ListVideos(ctx context.Context, q catalog.Query) ([]types.VideoWithOwner, error) {
	query, args := buildListQuery(q)

	var rows []videoRow
	if err := p.Db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	videos := make([]types.VideoWithOwner, 0, len(rows))
	for _, row := range rows {
		videos = append(videos, row.toVideoWithOwner())
	}
	return videos, nil
}

func (p *Postgres) UpdateVideoDetails(ctx context.Context, id string, details types.VideoDetails) (types.Video, error) {
	query := `
	UPDATE videos
	SET title = $2, description = $3, thumbnail_url = $4, thumbnail_key = $5, updated_at = NOW()
	WHERE id = $1
	` + returningVideo

	return p.getVideo(ctx, query, id, details.Title, details.Description, details.ThumbnailURL, details.ThumbnailKey)
}

func (p *Postgres) DeleteVideo(ctx context.Context, id string) (types.Video, error) {
	return p.getVideo(ctx, `DELETE FROM videos WHERE id = $1 `+returningVideo, id)
}

// TogglePublishStatus flips the flag in a single statement so concurrent
// toggles serialize on the row.
func (p *Postgres) TogglePublishStatus(ctx context.Context, id string) (types.Video, error) {
	query := `
	UPDATE videos
	SET is_published = NOT is_published, updated_at = NOW()
	WHERE id = $1
	` + returningVideo

	return p.getVideo(ctx, query, id)
}

func (p *Postgres) getVideo(ctx context.Context, query string, id string, args ...interface{}) (types.Video, error) {
	if !catalog.IsValidID(id) {
		return types.Video{}, storage.ErrNotFound
	}

	var video types.Video
	err := p.Db.GetContext(ctx, &video, query, append([]interface{}{id}, args...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Video{}, storage.ErrNotFound
	}
	if err != nil {
		return types.Video{}, err
	}
	return video, nil
}
