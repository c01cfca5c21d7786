// Package videos runs the catalog queries and the publish, update, delete and
// toggle-publish lifecycle of a video.
package videos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/princekumarofficial/video-service/internal/catalog"
	"github.com/princekumarofficial/video-service/internal/events"
	"github.com/princekumarofficial/video-service/internal/staging"
	"github.com/princekumarofficial/video-service/internal/storage"
	"github.com/princekumarofficial/video-service/internal/types"
	"github.com/princekumarofficial/video-service/internal/utils/apperror"
	"golang.org/x/sync/errgroup"
)

// Uploader is the object store as the pipeline sees it.
type Uploader interface {
	ValidateContentType(kind types.MediaKind, contentType string) bool
	Upload(ctx context.Context, file staging.File, kind types.MediaKind, ownerID string) (types.StoredObject, error)
	Delete(ctx context.Context, key string) error
}

type Options struct {
	Catalog      catalog.Options
	QueryTimeout time.Duration
}

type Service struct {
	store     storage.Storage
	uploader  Uploader
	publisher events.Publisher
	validate  *validator.Validate
	opts      Options
}

func NewService(store storage.Storage, uploader Uploader, publisher events.Publisher, opts Options) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Service{
		store:     store,
		uploader:  uploader,
		publisher: publisher,
		validate:  validate,
		opts:      opts,
	}
}

// List returns one page of the catalog. An empty page is not an error.
func (s *Service) List(ctx context.Context, raw catalog.RawParams) ([]types.VideoWithOwner, error) {
	q := catalog.Normalize(raw, s.opts.Catalog)

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	videos, err := s.store.ListVideos(ctx, q)
	if err != nil {
		return nil, apperror.CatalogUnavailable(err)
	}
	if videos == nil {
		videos = []types.VideoWithOwner{}
	}
	return videos, nil
}

func (s *Service) Get(ctx context.Context, id string) (types.VideoWithOwner, error) {
	if !catalog.IsValidID(id) {
		return types.VideoWithOwner{}, apperror.InvalidInput("invalid video id")
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	video, err := s.store.GetVideoByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return types.VideoWithOwner{}, apperror.NotFound("video not found")
	}
	if err != nil {
		return types.VideoWithOwner{}, apperror.CatalogUnavailable(err)
	}
	return video, nil
}

// Publish uploads the video then the thumbnail and records the result. Any
// object already uploaded is removed again when a later step fails. Staged
// files are released on every path.
func (s *Service) Publish(ctx context.Context, ownerID string, req types.VideoPublishRequest, files staging.Files) (types.Video, error) {
	defer files.Release()

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validateStruct(req); err != nil {
		return types.Video{}, err
	}

	switch files.Shape() {
	case staging.NoFiles:
		return types.Video{}, apperror.MissingField("media")
	case staging.VideoOnly, staging.ThumbnailOnly:
		return types.Video{}, apperror.MissingField("media-pair")
	}

	if err := s.checkStaged(files.Video, types.MediaKindVideo); err != nil {
		return types.Video{}, err
	}
	if err := s.checkStaged(files.Thumbnail, types.MediaKindThumbnail); err != nil {
		return types.Video{}, err
	}

	videoObj, err := s.uploader.Upload(ctx, *files.Video, types.MediaKindVideo, ownerID)
	if err != nil {
		return types.Video{}, err
	}

	thumbObj, err := s.uploader.Upload(ctx, *files.Thumbnail, types.MediaKindThumbnail, ownerID)
	if err != nil {
		s.removeObjects(ctx, videoObj.Key)
		return types.Video{}, err
	}

	storeCtx, cancel := s.queryContext(ctx)
	defer cancel()

	video, err := s.store.CreateVideo(storeCtx, types.Video{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		MediaURL:     videoObj.URL,
		MediaKey:     videoObj.Key,
		ThumbnailURL: thumbObj.URL,
		ThumbnailKey: thumbObj.Key,
		Duration:     videoObj.Duration,
		OwnerID:      ownerID,
		IsPublished:  true,
	})
	if err != nil {
		s.removeObjects(ctx, videoObj.Key, thumbObj.Key)
		return types.Video{}, apperror.PersistenceFailed("there is a problem while uploading the video, please try again later", err)
	}

	slog.Info("video published", slog.String("video_id", video.ID), slog.String("owner_id", ownerID))
	s.publisher.PublishVideoEvent(types.EventVideoPublished, video)

	return video, nil
}

// Update replaces title, description and thumbnail. The previous thumbnail
// object is removed only after the new details are stored.
func (s *Service) Update(ctx context.Context, id string, req types.VideoUpdateRequest, files staging.Files) (types.Video, error) {
	defer files.Release()

	if !catalog.IsValidID(id) {
		return types.Video{}, apperror.InvalidInput("invalid video id")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validateStruct(req); err != nil {
		return types.Video{}, err
	}
	if files.Thumbnail == nil {
		return types.Video{}, apperror.MissingField("thumbnail")
	}
	if err := s.checkStaged(files.Thumbnail, types.MediaKindThumbnail); err != nil {
		return types.Video{}, err
	}

	lookupCtx, cancel := s.queryContext(ctx)
	existing, err := s.store.GetVideoByID(lookupCtx, id)
	cancel()
	if errors.Is(err, storage.ErrNotFound) {
		return types.Video{}, apperror.NotFound("video not found")
	}
	if err != nil {
		return types.Video{}, apperror.PersistenceFailed("failed to load video", err)
	}

	thumbObj, err := s.uploader.Upload(ctx, *files.Thumbnail, types.MediaKindThumbnail, existing.OwnerID)
	if err != nil {
		return types.Video{}, err
	}

	storeCtx, cancel := s.queryContext(ctx)
	defer cancel()

	video, err := s.store.UpdateVideoDetails(storeCtx, id, types.VideoDetails{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: thumbObj.URL,
		ThumbnailKey: thumbObj.Key,
	})
	if err != nil {
		s.removeObjects(ctx, thumbObj.Key)
		if errors.Is(err, storage.ErrNotFound) {
			return types.Video{}, apperror.NotFound("video not found")
		}
		return types.Video{}, apperror.PersistenceFailed("there is a problem while updating the video, please try again later", err)
	}

	if existing.ThumbnailKey != "" && existing.ThumbnailKey != thumbObj.Key {
		s.removeObjects(ctx, existing.ThumbnailKey)
	}

	s.publisher.PublishVideoEvent(types.EventVideoUpdated, video)
	return video, nil
}

// Delete removes the record, then its remote objects. Deleting a video that
// does not exist succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !catalog.IsValidID(id) {
		return apperror.InvalidInput("invalid video id")
	}

	storeCtx, cancel := s.queryContext(ctx)
	defer cancel()

	video, err := s.store.DeleteVideo(storeCtx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperror.PersistenceFailed("failed to delete video", err)
	}

	s.removeObjects(ctx, video.MediaKey, video.ThumbnailKey)

	slog.Info("video deleted", slog.String("video_id", id))
	s.publisher.PublishVideoEvent(types.EventVideoDeleted, video)
	return nil
}

func (s *Service) TogglePublish(ctx context.Context, id string) (types.Video, error) {
	if !catalog.IsValidID(id) {
		return types.Video{}, apperror.InvalidInput("invalid video id")
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	video, err := s.store.TogglePublishStatus(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Video{}, apperror.NotFound("video not found")
	}
	if err != nil {
		return types.Video{}, apperror.PersistenceFailed("failed to toggle publish status", err)
	}

	s.publisher.PublishVideoEvent(types.EventVideoPublishToggle, video)
	return video, nil
}

// removeObjects deletes keys concurrently, even after ctx is cancelled.
// Failures are logged and otherwise ignored.
func (s *Service) removeObjects(ctx context.Context, keys ...string) {
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	for _, key := range keys {
		if key == "" {
			continue
		}
		g.Go(func() error {
			if err := s.uploader.Delete(ctx, key); err != nil {
				slog.Error("failed to remove object", slog.String("key", key), slog.String("error", err.Error()))
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return apperror.MissingField(validationErrs[0].Field())
	}
	return apperror.InvalidInput(err.Error())
}

func (s *Service) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.QueryTimeout)
}

// checkStaged rejects a staged file that has gone missing or whose sniffed
// type is outside the allow list for kind. Nothing is uploaded before this passes.
func (s *Service) checkStaged(file *staging.File, kind types.MediaKind) error {
	if err := file.Check(); err != nil {
		return apperror.InvalidInput("staged file " + file.OriginalName + " is unavailable")
	}
	if !s.uploader.ValidateContentType(kind, file.ContentType) {
		return apperror.InvalidInput(fmt.Sprintf("content type %s is not allowed for %s", file.ContentType, kind))
	}
	return nil
}
