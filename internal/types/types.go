package types

import "time"

// Video is one published asset in the catalog.
type Video struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	MediaURL     string    `json:"media_url" db:"media_url"`
	MediaKey     string    `json:"-" db:"media_key"`
	ThumbnailURL string    `json:"thumbnail_url" db:"thumbnail_url"`
	ThumbnailKey string    `json:"-" db:"thumbnail_key"`
	Duration     float64   `json:"duration" db:"duration"`
	OwnerID      string    `json:"owner_id" db:"owner_id"`
	IsPublished  bool      `json:"is_published" db:"is_published"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// OwnerProjection is the read-only slice of a user embedded in video results.
type OwnerProjection struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// VideoWithOwner is a Video joined with its owner. Owner is nil when the
// owner could not be resolved.
type VideoWithOwner struct {
	Video
	Owner *OwnerProjection `json:"owner"`
}

// VideoDetails are the fields an update may change.
type VideoDetails struct {
	Title        string
	Description  string
	ThumbnailURL string
	ThumbnailKey string
}

type VideoPublishRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type VideoUpdateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}
