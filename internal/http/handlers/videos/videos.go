package videos

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/princekumarofficial/video-service/internal/catalog"
	"github.com/princekumarofficial/video-service/internal/http/middleware"
	"github.com/princekumarofficial/video-service/internal/staging"
	"github.com/princekumarofficial/video-service/internal/types"
	"github.com/princekumarofficial/video-service/internal/utils/apperror"
	"github.com/princekumarofficial/video-service/internal/utils/response"
)

// Service is the video catalog and lifecycle as the handlers need it.
type Service interface {
	List(ctx context.Context, raw catalog.RawParams) ([]types.VideoWithOwner, error)
	Get(ctx context.Context, id string) (types.VideoWithOwner, error)
	Publish(ctx context.Context, ownerID string, req types.VideoPublishRequest, files staging.Files) (types.Video, error)
	Update(ctx context.Context, id string, req types.VideoUpdateRequest, files staging.Files) (types.Video, error)
	Delete(ctx context.Context, id string) error
	TogglePublish(ctx context.Context, id string) (types.Video, error)
}

// Stager receives multipart uploads.
type Stager interface {
	FromRequest(r *http.Request) (staging.Upload, error)
}

// List returns one page of videos
// @Summary List videos
// @Description Page through the catalog with an optional text filter, owner filter and ordering
// @Tags videos
// @Produce json
// @Param page query string false "Page number"
// @Param limit query string false "Page size"
// @Param query query string false "Case-insensitive text filter"
// @Param searchField query string false "Restrict the filter to title or description"
// @Param sortBy query string false "title, createdAt or updatedAt"
// @Param sortType query string false "asc or desc"
// @Param userId query string false "Owner ID"
// @Success 200 {object} response.Response "Videos fetched successfully"
// @Failure 500 {object} response.Response "Catalog unavailable"
// @Router /videos [get]
func List(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		videos, err := svc.List(r.Context(), catalog.RawParams{
			Page:        q.Get("page"),
			Limit:       q.Get("limit"),
			Query:       q.Get("query"),
			SearchField: q.Get("searchField"),
			SortBy:      q.Get("sortBy"),
			SortType:    q.Get("sortType"),
			UserID:      q.Get("userId"),
		})
		if err != nil {
			response.Error(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Videos fetched successfully", videos))
	}
}

// Get returns a single video with its owner
// @Summary Get a video
// @Tags videos
// @Produce json
// @Param videoId path string true "Video ID"
// @Success 200 {object} response.Response "Video fetched successfully"
// @Failure 400 {object} response.Response "Invalid video id"
// @Failure 404 {object} response.Response "Video not found"
// @Router /videos/{videoId} [get]
func Get(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		video, err := svc.Get(r.Context(), r.PathValue("videoId"))
		if err != nil {
			response.Error(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Video fetched successfully", video))
	}
}

// Publish uploads a new video with its thumbnail
// @Summary Publish a video
// @Description Upload a video file and a thumbnail. Both files, a title and a description are required.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param videoFile formData file true "Video file"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 201 {object} response.Response "Video published successfully"
// @Failure 400 {object} response.Response "Missing or invalid input"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 500 {object} response.Response "Upload or persistence failed"
// @Security BearerAuth
// @Router /videos [post]
func Publish(svc Service, stager Stager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		upload, err := stager.FromRequest(r)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		video, err := svc.Publish(r.Context(), userID, types.VideoPublishRequest{
			Title:       upload.Values.Get("title"),
			Description: upload.Values.Get("description"),
		}, upload.Files)
		if err != nil {
			slog.Warn("publish failed", slog.String("user_id", userID), slog.String("error", err.Error()))
			response.Error(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Video published successfully", video))
	}
}

// Update replaces the title, description and thumbnail of a video
// @Summary Update a video
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param videoId path string true "Video ID"
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 200 {object} response.Response "Video updated successfully"
// @Failure 400 {object} response.Response "Missing or invalid input"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Video not found"
// @Failure 500 {object} response.Response "Upload or persistence failed"
// @Security BearerAuth
// @Router /videos/{videoId} [patch]
func Update(svc Service, stager Stager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// reject a bad id before the body is staged to disk
		videoID := r.PathValue("videoId")
		if !catalog.IsValidID(videoID) {
			response.Error(w, r, apperror.InvalidInput("invalid video id"))
			return
		}

		upload, err := stager.FromRequest(r)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		video, err := svc.Update(r.Context(), videoID, types.VideoUpdateRequest{
			Title:       upload.Values.Get("title"),
			Description: upload.Values.Get("description"),
		}, upload.Files)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Video updated successfully", video))
	}
}

// Delete removes a video and its files
// @Summary Delete a video
// @Tags videos
// @Produce json
// @Param videoId path string true "Video ID"
// @Success 200 {object} response.Response "Video deleted successfully"
// @Failure 400 {object} response.Response "Invalid video id"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /videos/{videoId} [delete]
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("videoId")
		if err := svc.Delete(r.Context(), videoID); err != nil {
			response.Error(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Video deleted successfully", map[string]string{
			"videoId": videoID,
		}))
	}
}

// TogglePublish flips the published flag of a video
// @Summary Toggle publish status
// @Tags videos
// @Produce json
// @Param videoId path string true "Video ID"
// @Success 200 {object} response.Response "Publish status toggled"
// @Failure 400 {object} response.Response "Invalid video id"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Video not found"
// @Security BearerAuth
// @Router /videos/toggle/publish/{videoId} [patch]
func TogglePublish(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		video, err := svc.TogglePublish(r.Context(), r.PathValue("videoId"))
		if err != nil {
			response.Error(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Publish status toggled", video))
	}
}
