package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"campusconnect/internal/domain"
)

type filesystemStore struct {
	root string
}

// NewFilesystemStore returns a MaterialStore that keeps blobs as files under
// root. Keys map to paths, so the per-event "<eventID>/<filename>" namespace
// becomes one subdirectory per event.
func NewFilesystemStore(root string) (domain.MaterialStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &filesystemStore{root: root}, nil
}

// keyPath resolves a key inside the root and rejects path traversal.
func (s *filesystemStore) keyPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *filesystemStore) Save(ctx context.Context, key string, content io.Reader) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create material dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create material file: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write material file: %w", err)
	}
	return f.Close()
}

func (s *filesystemStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("open material file: %w", err)
	}
	return f, nil
}

func (s *filesystemStore) Stat(ctx context.Context, key string) (bool, int64, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("stat material file: %w", err)
	}
	return true, info.Size(), nil
}

func (s *filesystemStore) RemoveAll(ctx context.Context, prefix string) error {
	path, err := s.keyPath(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return err
	}
	return os.RemoveAll(path)
}
