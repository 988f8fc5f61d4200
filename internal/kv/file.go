//go:build !windows

package kv

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// File stores each key as its own file under a directory. Writes replace
// the file atomically.
type File struct {
	dir string
}

// OpenFile returns a File store rooted at dir, creating it if needed.
func OpenFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storeErr("file", "open", "", err)
	}
	return &File{dir: dir}, nil
}

func (s *File) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

// Get implements Store.
func (s *File) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr("file", "get", key, err)
	}
	return string(data), true, nil
}

// Set implements Store.
func (s *File) Set(_ context.Context, key, value string) error {
	err := renameio.WriteFile(s.path(key), []byte(value), 0o644)
	return storeErr("file", "set", key, err)
}

// Delete implements Store.
func (s *File) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return storeErr("file", "delete", key, err)
}

// Close implements Store.
func (s *File) Close() error {
	return nil
}
