package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"syscall"

	"multipiste/core/multitrack"
)

// LocalStore reads the track library from the OS filesystem.
type LocalStore struct{}

// NewLocalStore creates a LocalStore.
func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

// List returns the names of dir's immediate children, sorted.
func (s *LocalStore) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, classify(err, dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Open opens a regular file for streaming.
func (s *LocalStore) Open(ctx context.Context, path string) (*multitrack.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, classify(err, path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", multitrack.ErrNotFound, path)
	}
	return &multitrack.File{ReadCloser: f, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// classify maps missing paths to ErrNotFound and wraps everything else.
func classify(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("%w: %s", multitrack.ErrNotFound, path)
	}
	return fmt.Errorf("reading %s: %w", path, err)
}
