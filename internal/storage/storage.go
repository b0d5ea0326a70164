// Package storage keeps uploaded catalog images (posters, stills, portraits).
//
// Image fields on catalog records hold the path returned by Store.Save, for
// example "movies/3f1c...e2.jpg". The path is relative to the store root and
// is turned into a public link with Store.URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/mantonx/moviecatalog/internal/config"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrInvalidPath     = errors.New("invalid storage path")
	ErrNotFound        = errors.New("file not found")
)

// AllowedExtensions lists the image types accepted for upload.
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Store persists image files.
type Store interface {
	// Save writes r under dir and returns the stored path. The name is
	// generated; only the extension of filename is kept.
	Save(ctx context.Context, dir, filename string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	Delete(ctx context.Context, p string) error
	URL(p string) string
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.Root, cfg.BaseURL)
	case "minio":
		return NewMinioStore(ctx, cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}

// ObjectName returns dir/<uuid><ext> for an uploaded file name.
func ObjectName(dir, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filename)
	}
	clean, err := cleanPath(dir)
	if err != nil {
		return "", err
	}
	return path.Join(clean, uuid.New().String()+ext), nil
}

// ContentTypeFor guesses the MIME type from the path extension.
func ContentTypeFor(p string) string {
	if ct, ok := AllowedExtensions[strings.ToLower(path.Ext(p))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// cleanPath rejects absolute paths and parent references.
func cleanPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	if clean == "." {
		return "", nil
	}
	return clean, nil
}

func joinURL(base, p string) string {
	if base == "" {
		return p
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(p, "/")
}
