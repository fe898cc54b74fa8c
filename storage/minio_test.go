package storage

import (
	"context"
	"errors"
	"testing"

	"multipiste/config"
	"multipiste/core/multitrack"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	tests := map[string]string{
		"":                         "",
		"/":                        "",
		"/player-multipiste":       "player-multipiste",
		"kim/files/multipiste/":    "kim/files/multipiste",
		"/kim//files/./multipiste": "kim/files/multipiste",
	}
	for in, want := range tests {
		assert.Equal(t, want, objectKey(in), "objectKey(%q)", in)
	}
}

func TestDirPrefixAndChildName(t *testing.T) {
	assert.Equal(t, "", dirPrefix("/"))
	assert.Equal(t, "tracks/42/", dirPrefix("/tracks/42"))

	prefix := dirPrefix("/tracks")
	assert.Equal(t, "42", childName(prefix, "tracks/42/"))
	assert.Equal(t, "bass.mp3", childName(prefix, "tracks/bass.mp3"))
	assert.Equal(t, "", childName(prefix, "tracks/"))
}

func TestClassifyMinio(t *testing.T) {
	err := classifyMinio(minio.ErrorResponse{Code: "NoSuchKey"}, "a/b.wav")
	assert.ErrorIs(t, err, multitrack.ErrNotFound)

	err = classifyMinio(errors.New("connection refused"), "a/b.wav")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, multitrack.ErrNotFound)
}

func TestNew_Local(t *testing.T) {
	store, err := New(context.Background(), &config.Config{StorageBackend: config.BackendLocal})
	assert.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), &config.Config{StorageBackend: "tape"})
	assert.Error(t, err)
}
