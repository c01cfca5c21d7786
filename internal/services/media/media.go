// Package media pushes staged files to object storage and removes them again.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/princekumarofficial/video-service/internal/config"
	"github.com/princekumarofficial/video-service/internal/staging"
	"github.com/princekumarofficial/video-service/internal/types"
	"github.com/princekumarofficial/video-service/internal/utils/apperror"
)

// Backend is a remote object store.
type Backend interface {
	Put(ctx context.Context, key, path, contentType string) error
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// DurationProber reads the playback length of a local video file.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

type Service struct {
	backend Backend
	prober  DurationProber
	config  config.Media
}

func NewService(backend Backend, prober DurationProber, cfg config.Media) *Service {
	return &Service{backend: backend, prober: prober, config: cfg}
}

// NewBackend picks the object store named by the configuration.
func NewBackend(ctx context.Context, cfg config.ObjectStore) (Backend, error) {
	switch cfg.Provider {
	case config.ObjectStoreMinio:
		return NewMinioBackend(ctx, cfg.MinIO)
	case config.ObjectStoreS3:
		return NewS3Backend(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown object store provider %q", cfg.Provider)
	}
}

// ValidateContentType checks the sniffed type against the allowlist for kind.
func (s *Service) ValidateContentType(kind types.MediaKind, contentType string) bool {
	switch kind {
	case types.MediaKindVideo:
		return slices.Contains(s.config.AllowedVideoTypes, contentType)
	case types.MediaKindThumbnail:
		return slices.Contains(s.config.AllowedImageTypes, contentType)
	default:
		return false
	}
}

// GenerateObjectKey creates a unique key under the owner's folder for kind.
func (s *Service) GenerateObjectKey(ownerID string, kind types.MediaKind, contentType, originalName string) string {
	var ext string
	if m := mimetype.Lookup(contentType); m != nil {
		ext = m.Extension()
	}
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(originalName))
	}

	folder := "videos"
	if kind == types.MediaKindThumbnail {
		folder = "thumbnails"
	}

	return fmt.Sprintf("users/%s/%s/%s%s", ownerID, folder, uuid.NewString(), ext)
}

// Upload pushes one staged file. Only videos carry a duration.
func (s *Service) Upload(ctx context.Context, file staging.File, kind types.MediaKind, ownerID string) (types.StoredObject, error) {
	if !s.ValidateContentType(kind, file.ContentType) {
		return types.StoredObject{}, apperror.InvalidInput(fmt.Sprintf("content type %s is not allowed for %s", file.ContentType, kind))
	}

	var duration float64
	if kind == types.MediaKindVideo && s.prober != nil {
		d, err := s.prober.Duration(ctx, file.Path)
		if err != nil {
			slog.Warn("could not read video duration", slog.String("path", file.Path), slog.String("error", err.Error()))
		} else {
			duration = d
		}
	}

	key := s.GenerateObjectKey(ownerID, kind, file.ContentType, file.OriginalName)

	uploadCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.backend.Put(uploadCtx, key, file.Path, file.ContentType); err != nil {
		return types.StoredObject{}, apperror.UploadFailed(fmt.Sprintf("failed to upload %s", kind), err)
	}

	slog.Info("media uploaded",
		slog.String("key", key),
		slog.String("kind", string(kind)),
		slog.Int64("size", file.Size),
	)

	return types.StoredObject{
		Key:      key,
		URL:      s.backend.URL(key),
		Duration: duration,
	}, nil
}

// Delete removes an object. Empty keys are a no-op.
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.backend.Remove(ctx, key)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.UploadTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.UploadTimeout)
}
