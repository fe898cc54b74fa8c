package multitrack

import "errors"

var (
	// ErrMissingID is returned when a track is requested without an id.
	ErrMissingID = errors.New("need to provide an ID")
	// ErrNotFound is returned when a track root, track directory or sound file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPath is returned when a path segment would escape its root.
	ErrInvalidPath = errors.New("invalid path")
)
