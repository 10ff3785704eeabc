package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"foodfast/internal/pkg/errs"
)

// DiskStorage implements ObjectStorage on a local directory tree. Keys map
// to file paths below the root; path separators in keys become directories.
// Writes go through a temp file and a rename so readers never observe a
// partially written object.
type DiskStorage struct {
	root string
}

// NewDiskStorage creates a disk-backed object store rooted at dir,
// creating the directory if it does not exist.
func NewDiskStorage(dir string) (*DiskStorage, error) {
	if dir == "" {
		return nil, errs.NewValueIsRequiredError("dir")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &DiskStorage{root: dir}, nil
}

// Put writes the content under key, overwriting any previous object.
func (s *DiskStorage) Put(ctx context.Context, key string, content io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}

	if _, err = io.Copy(tmp, content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write object %s: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp object: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("commit object %s: %w", key, err)
	}
	return nil
}

// Get opens the object stored under key. The caller closes the reader.
func (s *DiskStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.NewObjectNotFoundError("object", key)
	}
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the object stored under key. Deleting a missing object
// is not an error.
func (s *DiskStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// resolve maps a key onto a path under the root and rejects keys that
// would escape it.
func (s *DiskStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errs.NewValueIsRequiredError("key")
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", errs.NewValueIsInvalidError("key")
	}
	return filepath.Join(s.root, clean), nil
}
