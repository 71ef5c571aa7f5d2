package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pithecene-io/abacus/iox"
)

// File stores each key as one file under a directory.
type File struct {
	dir string
}

// NewFile creates the directory if needed and returns a file-backed store.
func NewFile(dir string) (*File, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file store requires a directory path")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".dat"), nil
}

// Get implements Store.
func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(err, "get", key)
	}
	p, err := f.path(key)
	if err != nil {
		return nil, NewStorageError(ErrUnclassified, "get", key, err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, wrap(err, "get", key)
	}
	return data, nil
}

// Set implements Store.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return wrap(err, "set", key)
	}
	p, err := f.path(key)
	if err != nil {
		return NewStorageError(ErrUnclassified, "set", key, err)
	}
	return wrap(iox.WriteFileAtomic(p, value, 0o644), "set", key)
}

// Delete implements Store.
func (f *File) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return wrap(err, "delete", key)
	}
	p, err := f.path(key)
	if err != nil {
		return NewStorageError(ErrUnclassified, "delete", key, err)
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return wrap(err, "delete", key)
	}
	return nil
}

// Close implements Store.
func (f *File) Close() error { return nil }
