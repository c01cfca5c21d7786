package staging

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/princekumarofficial/video-service/internal/utils/apperror"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	mp4Header = []byte("\x00\x00\x00\x20ftypisom\x00\x00\x02\x00isomiso2avc1mp41\x00\x00\x00\x08free")
)

type part struct {
	field, filename string
	body            []byte
}

func multipartRequest(t *testing.T, values map[string]string, files ...part) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(f.body)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestFromRequestStagesBothFiles(t *testing.T) {
	dir := t.TempDir()
	stager, err := NewStager(dir, 1<<20)
	if err != nil {
		t.Fatalf("NewStager: %v", err)
	}

	req := multipartRequest(t,
		map[string]string{"title": "Night drive", "description": "city lights"},
		part{FieldVideo, "clip.MP4", mp4Header},
		part{FieldThumbnail, "cover.png", pngHeader},
		part{"extra", "ignored.bin", []byte("x")},
	)

	upload, err := stager.FromRequest(req)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	defer upload.Files.Release()

	if upload.Values.Get("title") != "Night drive" || upload.Values.Get("description") != "city lights" {
		t.Fatalf("unexpected values %v", upload.Values)
	}
	if upload.Files.Shape() != Both {
		t.Fatalf("expected both files, got %s", upload.Files.Shape())
	}
	if !strings.HasPrefix(upload.Files.Video.ContentType, "video/") {
		t.Fatalf("expected video content type, got %q", upload.Files.Video.ContentType)
	}
	if upload.Files.Thumbnail.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %q", upload.Files.Thumbnail.ContentType)
	}
	if filepath.Ext(upload.Files.Video.Path) != ".mp4" {
		t.Fatalf("expected lowercased extension, got %s", upload.Files.Video.Path)
	}
	if upload.Files.Video.OriginalName != "clip.MP4" {
		t.Fatalf("unexpected original name %q", upload.Files.Video.OriginalName)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("expected 2 staged files, got %d", len(entries))
	}

	upload.Files.Release()
	upload.Files.Release()
	entries, _ = os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected staging dir to be empty after release, got %d", len(entries))
	}
}

func TestShapeVariants(t *testing.T) {
	f := &File{}
	cases := []struct {
		files Files
		want  Shape
	}{
		{Files{}, NoFiles},
		{Files{Video: f}, VideoOnly},
		{Files{Thumbnail: f}, ThumbnailOnly},
		{Files{Video: f, Thumbnail: f}, Both},
	}
	for _, c := range cases {
		if got := c.files.Shape(); got != c.want {
			t.Fatalf("expected %s, got %s", c.want, got)
		}
	}
}

func TestFromRequestRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	stager, _ := NewStager(dir, 8)

	req := multipartRequest(t, nil,
		part{FieldThumbnail, "cover.png", pngHeader},
		part{FieldVideo, "clip.mp4", mp4Header},
	)

	_, err := stager.FromRequest(req)
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected nothing left staged, got %d files", len(entries))
	}
}

func TestFromRequestRequiresMultipart(t *testing.T) {
	stager, _ := NewStager(t.TempDir(), 1<<20)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	if _, err := stager.FromRequest(req); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestFileCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staged-1.mp4")
	os.WriteFile(path, mp4Header, 0o644)

	f := &File{Path: path}
	if err := f.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	os.Remove(path)
	if err := f.Check(); err == nil {
		t.Fatal("expected error for removed file")
	}
}

func TestSweepRemovesOnlyStaleStagedFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	stale := filepath.Join(dir, "staged-old.mp4")
	fresh := filepath.Join(dir, "staged-new.mp4")
	other := filepath.Join(dir, "janitor.lock")
	for _, p := range []string{stale, fresh, other} {
		if err := os.WriteFile(p, []byte("12345"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	old := now.Add(-2 * time.Hour)
	os.Chtimes(stale, old, old)
	os.Chtimes(other, old, old)

	result, err := Sweep(dir, time.Hour, now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Removed != 1 || result.Bytes != 5 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("expected stale file to be removed")
	}
	for _, p := range []string{fresh, other} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to remain: %v", p, err)
		}
	}
}

func TestSweepMissingDir(t *testing.T) {
	result, err := Sweep(filepath.Join(t.TempDir(), "absent"), time.Hour, time.Now())
	if err != nil || result.Removed != 0 {
		t.Fatalf("expected empty result, got %+v %v", result, err)
	}
}
