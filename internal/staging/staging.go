// Package staging holds uploaded files in a local directory until they are
// pushed to object storage. Staged files are scoped resources: whoever owns a
// Files value must call Release on every exit path.
package staging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/princekumarofficial/video-service/internal/utils/apperror"
)

const (
	FieldVideo     = "videoFile"
	FieldThumbnail = "thumbnail"

	filePrefix     = "staged-"
	maxFormValue   = 64 << 10
	maxFormEntries = 32
)

// File is one staged upload on local disk.
type File struct {
	Path         string
	OriginalName string
	ContentType  string
	Size         int64
}

// Shape is the tagged variant of the files attached to a request.
type Shape int

const (
	NoFiles Shape = iota
	VideoOnly
	ThumbnailOnly
	Both
)

func (s Shape) String() string {
	switch s {
	case VideoOnly:
		return "video-only"
	case ThumbnailOnly:
		return "thumbnail-only"
	case Both:
		return "both"
	default:
		return "no-files"
	}
}

// Files are the staged files of one request.
type Files struct {
	Video     *File
	Thumbnail *File
}

func (f Files) Shape() Shape {
	switch {
	case f.Video != nil && f.Thumbnail != nil:
		return Both
	case f.Video != nil:
		return VideoOnly
	case f.Thumbnail != nil:
		return ThumbnailOnly
	default:
		return NoFiles
	}
}

// Release deletes every staged file. It is idempotent.
func (f Files) Release() {
	for _, file := range []*File{f.Video, f.Thumbnail} {
		if file == nil || file.Path == "" {
			continue
		}
		if err := os.Remove(file.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove staged file", slog.String("path", file.Path), slog.String("error", err.Error()))
		}
	}
}

// Check confirms the staged file is still on disk.
func (f *File) Check() error {
	info, err := os.Stat(f.Path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", f.Path)
	}
	return nil
}

// Upload is a parsed multipart request: plain form values plus staged files.
type Upload struct {
	Values url.Values
	Files  Files
}

type Stager struct {
	dir         string
	maxFileSize int64
}

func NewStager(dir string, maxFileSize int64) (*Stager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Stager{dir: dir, maxFileSize: maxFileSize}, nil
}

func (s *Stager) Dir() string {
	return s.dir
}

// FromRequest streams a multipart body into the staging directory. Only the
// first part of each known file field is kept. On error nothing stays staged.
func (s *Stager) FromRequest(r *http.Request) (Upload, error) {
	upload := Upload{Values: url.Values{}}

	reader, err := r.MultipartReader()
	if err != nil {
		return upload, apperror.InvalidInput("request must be multipart/form-data")
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			upload.Files.Release()
			return Upload{}, apperror.InvalidInput("malformed multipart body")
		}

		if err := s.consume(part, &upload); err != nil {
			part.Close()
			upload.Files.Release()
			return Upload{}, err
		}
		part.Close()
	}

	return upload, nil
}

func (s *Stager) consume(part *multipart.Part, upload *Upload) error {
	name := part.FormName()

	if part.FileName() == "" {
		if len(upload.Values) >= maxFormEntries {
			return apperror.InvalidInput("too many form fields")
		}
		value, err := io.ReadAll(io.LimitReader(part, maxFormValue+1))
		if err != nil {
			return apperror.InvalidInput("malformed form field " + name)
		}
		if len(value) > maxFormValue {
			return apperror.InvalidInput("form field " + name + " is too large")
		}
		upload.Values.Add(name, string(value))
		return nil
	}

	var slot **File
	switch name {
	case FieldVideo:
		slot = &upload.Files.Video
	case FieldThumbnail:
		slot = &upload.Files.Thumbnail
	default:
		return nil
	}
	if *slot != nil {
		return nil
	}

	file, err := s.write(part)
	if err != nil {
		return err
	}
	*slot = file
	return nil
}

func (s *Stager) write(part *multipart.Part) (*File, error) {
	ext := strings.ToLower(filepath.Ext(part.FileName()))
	out, err := os.CreateTemp(s.dir, filePrefix+"*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	n, copyErr := io.Copy(out, io.LimitReader(part, s.maxFileSize+1))
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil || n > s.maxFileSize {
		os.Remove(out.Name())
		if n > s.maxFileSize {
			return nil, apperror.InvalidInput(part.FormName() + " exceeds the maximum file size")
		}
		return nil, apperror.InvalidInput("failed to receive " + part.FormName())
	}

	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectFile(out.Name()); err == nil {
		contentType = mtype.String()
	}

	return &File{
		Path:         out.Name(),
		OriginalName: filepath.Base(part.FileName()),
		ContentType:  contentType,
		Size:         n,
	}, nil
}
