package multitrack

import (
	"context"
	"io"
	"time"
)

// Lister enumerates the immediate children of a directory, sorted by name.
// A missing directory is reported as an error wrapping ErrNotFound.
type Lister interface {
	List(ctx context.Context, dir string) ([]string, error)
}

// Store is the read-only view of the track library.
type Store interface {
	Lister
	// Open returns a streaming handle on a file; the caller must Close it.
	Open(ctx context.Context, path string) (*File, error)
}

// File is an open sound file.
type File struct {
	io.ReadCloser
	Size    int64 // -1 when unknown
	ModTime time.Time
}
