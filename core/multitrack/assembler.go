package multitrack

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"multipiste/model"
)

// BuildTrack reads dir and returns the track made of its sound files.
// The id is checked before any filesystem access.
func BuildTrack(ctx context.Context, l Lister, dir, id string) (*model.Track, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	fileNames, err := l.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("listing track %q: %w", id, err)
	}
	fileNames = slices.Clone(fileNames)
	slices.Sort(fileNames)

	instruments := make([]model.Instrument, 0, len(fileNames))
	for _, fileName := range fileNames {
		if !IsAudioFile(fileName) {
			continue
		}
		instruments = append(instruments, model.Instrument{
			Name:  DisplayName(fileName),
			Sound: fileName,
		})
	}

	return &model.Track{ID: id, Instruments: instruments}, nil
}

// ListTracks returns the track ids (directory names) under root.
// A missing root yields an empty list rather than an error.
func ListTracks(ctx context.Context, l Lister, root string) ([]string, error) {
	entries, err := l.List(ctx, root)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing tracks in %q: %w", root, err)
	}

	ids := make([]string, 0, len(entries))
	for _, name := range entries {
		if name == OSArtifact {
			continue
		}
		ids = append(ids, name)
	}
	slices.Sort(ids)
	return ids, nil
}
