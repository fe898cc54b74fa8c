package multitrack

import (
	"context"

	"multipiste/model"
)

// Library binds the path layout to a store and answers track queries.
type Library struct {
	store Store
	paths Paths
}

// NewLibrary creates a Library.
func NewLibrary(store Store, paths Paths) *Library {
	return &Library{store: store, paths: paths}
}

// Paths returns the path layout the library resolves against.
func (l *Library) Paths() Paths {
	return l.paths
}

// ListTracks lists the track ids of the default root.
func (l *Library) ListTracks(ctx context.Context) ([]string, error) {
	return ListTracks(ctx, l.store, l.paths.DefaultRoot)
}

// ListUserTracks lists the track ids of user's root.
func (l *Library) ListUserTracks(ctx context.Context, user string) ([]string, error) {
	root, err := l.paths.UserTrackRoot(user)
	if err != nil {
		return nil, err
	}
	return ListTracks(ctx, l.store, root)
}

// Track builds the track id from the default root.
func (l *Library) Track(ctx context.Context, id string) (*model.Track, error) {
	return l.trackIn(ctx, l.paths.DefaultRoot, id)
}

// UserTrack builds the track id from user's root.
func (l *Library) UserTrack(ctx context.Context, user, id string) (*model.Track, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	root, err := l.paths.UserTrackRoot(user)
	if err != nil {
		return nil, err
	}
	return l.trackIn(ctx, root, id)
}

func (l *Library) trackIn(ctx context.Context, root, id string) (*model.Track, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	dir, err := Within(root, id)
	if err != nil {
		return nil, err
	}
	return BuildTrack(ctx, l.store, dir, id)
}

// OpenSound opens file of song in user's root for streaming.
func (l *Library) OpenSound(ctx context.Context, user, song, file string) (*File, error) {
	root, err := l.paths.UserTrackRoot(user)
	if err != nil {
		return nil, err
	}
	p, err := Within(root, song, file)
	if err != nil {
		return nil, err
	}
	return l.store.Open(ctx, p)
}
