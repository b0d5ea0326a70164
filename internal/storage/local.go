package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes files below a directory that the HTTP server exposes
// at BaseURL.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local media store requires a root directory")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &LocalStore{root: root, baseURL: baseURL}, nil
}

// Root returns the directory files are written to.
func (s *LocalStore) Root() string { return s.root }

// BaseURL returns the URL prefix the root is served under.
func (s *LocalStore) BaseURL() string { return s.baseURL }

func (s *LocalStore) Save(ctx context.Context, dir, filename string, r io.Reader, size int64, contentType string) (string, error) {
	name, err := ObjectName(dir, filename)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	var src io.Reader = r
	if size > 0 {
		src = io.LimitReader(r, size)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return name, nil
}

func (s *LocalStore) resolve(p string) (string, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	if clean == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func (s *LocalStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return f, err
}

func (s *LocalStore) Delete(ctx context.Context, p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", p, err)
	}
	return nil
}

func (s *LocalStore) URL(p string) string {
	if p == "" {
		return ""
	}
	return joinURL(s.baseURL, p)
}
