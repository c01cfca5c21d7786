package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/princekumarofficial/video-service/internal/config"
	"github.com/princekumarofficial/video-service/internal/staging"
	"github.com/princekumarofficial/video-service/internal/types"
	"github.com/princekumarofficial/video-service/internal/utils/apperror"
)

type fakeBackend struct {
	puts    []string
	removed []string
	putErr  error
}

func (f *fakeBackend) Put(_ context.Context, key, _, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeBackend) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeBackend) URL(key string) string {
	return "http://cdn.local/videos/" + key
}

type fixedProber struct {
	seconds float64
	err     error
}

func (p fixedProber) Duration(context.Context, string) (float64, error) {
	return p.seconds, p.err
}

var testMedia = config.Media{
	AllowedVideoTypes: []string{"video/mp4"},
	AllowedImageTypes: []string{"image/png", "image/jpeg"},
}

func TestGenerateObjectKey(t *testing.T) {
	s := NewService(&fakeBackend{}, nil, testMedia)

	key := s.GenerateObjectKey("owner-1", types.MediaKindVideo, "video/mp4", "clip.bin")
	if !strings.HasPrefix(key, "users/owner-1/videos/") || !strings.HasSuffix(key, ".mp4") {
		t.Fatalf("unexpected video key %q", key)
	}

	key = s.GenerateObjectKey("owner-1", types.MediaKindThumbnail, "application/x-unknown", "Cover.JPG")
	if !strings.HasPrefix(key, "users/owner-1/thumbnails/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected thumbnail key %q", key)
	}

	if s.GenerateObjectKey("o", types.MediaKindVideo, "video/mp4", "") == s.GenerateObjectKey("o", types.MediaKindVideo, "video/mp4", "") {
		t.Fatal("expected unique keys")
	}
}

func TestValidateContentType(t *testing.T) {
	s := NewService(&fakeBackend{}, nil, testMedia)

	if !s.ValidateContentType(types.MediaKindVideo, "video/mp4") {
		t.Fatal("expected video/mp4 to be allowed")
	}
	if s.ValidateContentType(types.MediaKindVideo, "image/png") {
		t.Fatal("image must not pass as a video")
	}
	if s.ValidateContentType(types.MediaKindThumbnail, "video/mp4") {
		t.Fatal("video must not pass as a thumbnail")
	}
}

func TestUploadVideoCarriesDuration(t *testing.T) {
	backend := &fakeBackend{}
	s := NewService(backend, fixedProber{seconds: 42.5}, testMedia)

	obj, err := s.Upload(context.Background(), staging.File{Path: "/tmp/x.mp4", ContentType: "video/mp4"}, types.MediaKindVideo, "owner-1")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if obj.Duration != 42.5 {
		t.Fatalf("expected duration 42.5, got %v", obj.Duration)
	}
	if len(backend.puts) != 1 || backend.puts[0] != obj.Key {
		t.Fatalf("expected one put for %q, got %v", obj.Key, backend.puts)
	}
	if obj.URL != "http://cdn.local/videos/"+obj.Key {
		t.Fatalf("unexpected url %q", obj.URL)
	}
}

func TestUploadToleratesProbeFailure(t *testing.T) {
	s := NewService(&fakeBackend{}, fixedProber{err: errors.New("no ffprobe")}, testMedia)

	obj, err := s.Upload(context.Background(), staging.File{Path: "/tmp/x.mp4", ContentType: "video/mp4"}, types.MediaKindVideo, "owner-1")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if obj.Duration != 0 {
		t.Fatalf("expected zero duration, got %v", obj.Duration)
	}
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	backend := &fakeBackend{}
	s := NewService(backend, nil, testMedia)

	_, err := s.Upload(context.Background(), staging.File{ContentType: "application/zip"}, types.MediaKindThumbnail, "owner-1")
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(backend.puts) != 0 {
		t.Fatal("nothing should be uploaded")
	}
}

func TestUploadBackendFailure(t *testing.T) {
	s := NewService(&fakeBackend{putErr: errors.New("connection reset")}, nil, testMedia)

	_, err := s.Upload(context.Background(), staging.File{ContentType: "image/png"}, types.MediaKindThumbnail, "owner-1")
	if !errors.Is(err, apperror.ErrUploadFailed) {
		t.Fatalf("expected upload failed, got %v", err)
	}
}

func TestDeleteSkipsEmptyKey(t *testing.T) {
	backend := &fakeBackend{}
	s := NewService(backend, nil, testMedia)

	if err := s.Delete(context.Background(), ""); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(context.Background(), "users/o/videos/a.mp4"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(backend.removed) != 1 {
		t.Fatalf("expected one removal, got %v", backend.removed)
	}
}

func TestObjectURL(t *testing.T) {
	got := objectURL("http://localhost:9000/", false, "videos", "users/o/videos/a.mp4")
	if got != "http://localhost:9000/videos/users/o/videos/a.mp4" {
		t.Fatalf("unexpected url %q", got)
	}
	got = objectURL("https://s3.example.com", true, "b", "k")
	if got != "https://s3.example.com/b/k" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestS3PublicURL(t *testing.T) {
	if got := s3PublicURL(config.S3{Region: "eu-west-1", Bucket: "videos"}); got != "https://videos.s3.eu-west-1.amazonaws.com" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := s3PublicURL(config.S3{Bucket: "videos", Endpoint: "http://minio:9000/"}); got != "http://minio:9000/videos" {
		t.Fatalf("unexpected url %q", got)
	}
}
