package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"backend/pkg/apperror"

	"github.com/google/uuid"
)

// allowedContentTypes is the upload allow-list: images, PDFs, Office documents
// and CSV.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/csv": true,
}

type UploadResult struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}

// FileService stores uploaded attachments on local disk under a fixed
// directory. Names are freshly generated UUIDs so writes never collide; there
// is no cleanup or quota.
type FileService interface {
	Save(originalName, contentType string, r io.Reader) (*UploadResult, error)
	Resolve(name string) (string, error)
}

type fileService struct {
	dir string
}

// NewFileService creates the upload directory if needed.
func NewFileService(dir string) (FileService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &fileService{dir: dir}, nil
}

func (s *fileService) Save(originalName, contentType string, r io.Reader) (*UploadResult, error) {
	if !allowedContentTypes[contentType] {
		return nil, apperror.BadRequest("File type not allowed")
	}

	name := uuid.NewString()
	if ext := filepath.Ext(originalName); ext != "" {
		name += ext
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{Filename: name, OriginalName: originalName}, nil
}

// Resolve maps a stored name to its on-disk path, rejecting traversal attempts
// and missing files.
func (s *fileService) Resolve(name string) (string, error) {
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "\\") || strings.Contains(name, "..") {
		return "", apperror.NotFound("File not found")
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", apperror.NotFound("File not found")
	}
	return path, nil
}
