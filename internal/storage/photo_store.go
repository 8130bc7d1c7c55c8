package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrOutsideStore is returned for paths that do not point into the store's
// directory.
var ErrOutsideStore = errors.New("path is outside the photo directory")

// PhotoStore keeps uploaded photos in a single directory under random names.
type PhotoStore struct {
	dir string
}

func NewPhotoStore(dir string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &PhotoStore{dir: dir}, nil
}

// Save writes r to a new file and returns its path. ext is the file
// extension including the dot and may be empty.
func (s *PhotoStore) Save(r io.Reader, ext string) (string, error) {
	ext = strings.ToLower(filepath.Ext("x" + ext))
	path := filepath.Join(s.dir, uuid.New().String()+ext)

	// Atomic write: write to temp file then rename.
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}
	return path, nil
}

// Open returns the stored photo at path for reading.
func (s *PhotoStore) Open(path string) (io.ReadCloser, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	return f, nil
}

// Exists reports whether path names a regular file inside the store.
func (s *PhotoStore) Exists(path string) bool {
	resolved, err := s.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(resolved)
	return err == nil && info.Mode().IsRegular()
}

// Remove deletes the photo at path. Removing a photo that is already gone
// is not an error.
func (s *PhotoStore) Remove(path string) error {
	resolved, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}

func (s *PhotoStore) resolve(path string) (string, error) {
	base, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return "", fmt.Errorf("%q: %w", path, ErrOutsideStore)
	}
	return target, nil
}
