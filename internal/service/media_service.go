package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/unach/escuela-backend/internal/config"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnknownUploadTarget = errors.New("unknown upload target")
)

// UploadTarget is the entity folder a photo belongs to.
type UploadTarget string

const (
	UploadStudents UploadTarget = "alumnos"
	UploadTeachers UploadTarget = "maestros"
)

// Allowed image MIME types.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// MediaService handles file upload operations.
type MediaService struct {
	cfg *config.Config
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg}
}

// multipartOverhead is the room left for boundaries and part headers on top
// of the file itself.
const multipartOverhead = 1 << 20

// MaxRequestBytes caps the whole upload request body.
func (s *MediaService) MaxRequestBytes() int64 {
	return s.cfg.MaxUploadBytes + multipartOverhead
}

// SaveUpload saves an uploaded photo under the target folder with a UUID
// filename and returns its public URL.
func (s *MediaService) SaveUpload(target UploadTarget, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if target != UploadStudents && target != UploadTeachers {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUploadTarget, target)
	}

	// Validate MIME type.
	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s (allowed: image/jpeg, image/jpg, image/png)", ErrUnsupportedFileType, contentType)
	}

	// Validate file size.
	if header.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	dir := filepath.Join(s.cfg.UploadDir, string(target))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(dir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	// The declared size can lie; cap the copy as well.
	n, err := io.Copy(dst, io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	closeErr := dst.Close()
	if err == nil && n > s.cfg.MaxUploadBytes {
		err = fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &UploadResult{
		URL:      "/uploads/" + string(target) + "/" + filename,
		Filename: filename,
	}, nil
}

// RemoveUpload deletes the file behind a public /uploads URL. Missing files
// are not an error.
func (s *MediaService) RemoveUpload(url string) error {
	rel, ok := strings.CutPrefix(url, "/uploads/")
	if !ok {
		return fmt.Errorf("not an upload URL: %s", url)
	}

	dir, name := filepath.Split(filepath.FromSlash(rel))
	dir = filepath.Clean(dir)
	switch UploadTarget(dir) {
	case UploadStudents, UploadTeachers:
	case ".":
		dir = ""
	default:
		return fmt.Errorf("not an upload URL: %s", url)
	}

	path := filepath.Join(s.cfg.UploadDir, dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
