package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"multipiste/config"
	"multipiste/core/auth"
	"multipiste/core/multitrack"
	"multipiste/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	base    string
	cfg     *config.Config
	handler http.Handler
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newFixture(t *testing.T, creds *auth.Credentials) *fixture {
	t.Helper()
	base := t.TempDir()

	cfg := &config.Config{
		Port:             3000,
		TracksPath:       filepath.Join(base, "default"),
		UserTracksBase:   filepath.Join(base, "users"),
		UserTracksSuffix: filepath.Join("files", "multipiste"),
		AliasDir:         filepath.Join(base, "alias"),
		ClientDir:        filepath.Join(base, "client"),
		IndexFile:        filepath.Join(base, "index.html"),
		AuthRealm:        "Super duper secret area",
		StorageBackend:   config.BackendLocal,
	}

	for _, name := range []string{"bass.mp3", ".DS_Store", "drums.wav", "notes.txt"} {
		writeFile(t, filepath.Join(cfg.TracksPath, "42", name), "data:"+name)
	}
	writeFile(t, filepath.Join(cfg.TracksPath, ".DS_Store"), "")
	writeFile(t, filepath.Join(cfg.TracksPath, "demo", "piano.ogg"), "OggS")

	userRoot := filepath.Join(cfg.UserTracksBase, "kim", "files", "multipiste")
	writeFile(t, filepath.Join(userRoot, "song1", "voice.wav"), "RIFF-voice")
	writeFile(t, filepath.Join(userRoot, "song1", "lyrics.xyz"), "la la la")
	writeFile(t, filepath.Join(userRoot, "song1", "Guitar.MP3"), "ID3")

	writeFile(t, cfg.IndexFile, "<h1>root</h1>")
	writeFile(t, filepath.Join(cfg.ClientDir, "index.html"), "<h1>client</h1>")
	writeFile(t, filepath.Join(cfg.ClientDir, "app.js"), "console.log('multitrack')")

	library := multitrack.NewLibrary(storage.NewLocalStore(), PathsFromConfig(cfg))
	return &fixture{base: base, cfg: cfg, handler: NewRouter(cfg, library, creds)}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListTracks(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/track")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `["42","demo"]`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListTracks_MissingRoot(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.RemoveAll(f.cfg.TracksPath))

	rec := f.get(t, "/track")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestListUserTracks(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/tracks/user/kim")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["song1"]`, rec.Body.String())

	rec = f.get(t, "/tracks/user/nobody")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestGetTrack(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/track/42")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		`{"id":"42","instruments":[{"name":"bass","sound":"bass.mp3"},{"name":"drums","sound":"drums.wav"}]}`,
		rec.Body.String())
}

func TestGetTrack_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/track/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `Track not found with id "nope"`, rec.Body.String())
}

func TestGetTrack_Idempotent(t *testing.T) {
	f := newFixture(t, nil)

	first := f.get(t, "/track/42").Body.String()
	second := f.get(t, "/track/42").Body.String()
	assert.Equal(t, first, second)
}

func TestGetUserTrack(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/track/user/kim/id/song1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"song1","instruments":[{"name":"voice","sound":"voice.wav"}]}`, rec.Body.String())

	rec = f.get(t, "/track/user/kim/id/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"missing"`)
}

func TestGetUserTrack_InvalidUser(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/track/user/a%5Cb/id/song1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadSound(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/multitrack-dyn/user/kim/song/song1/file/voice.wav")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/x-wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=voice.wav", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "10", rec.Header().Get("Content-Length"))
	assert.Equal(t, "RIFF-voice", rec.Body.String())
}

func TestDownloadSound_MimeFallbacks(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/multitrack-dyn/user/kim/song/song1/file/Guitar.MP3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))

	rec = f.get(t, "/multitrack-dyn/user/kim/song/song1/file/lyrics.xyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
}

func TestDownloadSound_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/multitrack-dyn/user/kim/song/song1/file/missing.wav")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404 – File missing.wav not found.", rec.Body.String())
}

func TestPages(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "root")

	rec = f.get(t, "/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "multitrack")

	rec = f.get(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestUserPage_CreatesAlias(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/user/kim")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "client")

	dest, err := os.Readlink(filepath.Join(f.cfg.AliasDir, "kim"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.cfg.UserTracksBase, "kim", "files", "multipiste"), dest)

	rec = f.get(t, "/user/nobody")
	assert.Equal(t, http.StatusOK, rec.Code)
	_, err = os.Lstat(filepath.Join(f.cfg.AliasDir, "nobody"))
	assert.True(t, os.IsNotExist(err))
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/track", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBasicAuth(t *testing.T) {
	creds, err := auth.NewCredentials("super", "secret", "")
	require.NoError(t, err)
	f := newFixture(t, creds)

	rec := f.get(t, "/track")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="Super duper secret area"`, rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Unauthorized", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/track", nil)
	req.SetBasicAuth("super", "wrong")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/track", nil)
	req.SetBasicAuth("super", "secret")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// failingStore simulates an unexpected filesystem failure.
type failingStore struct{}

func (failingStore) List(context.Context, string) ([]string, error) {
	return nil, errors.New("input/output error")
}

func (failingStore) Open(context.Context, string) (*multitrack.File, error) {
	return nil, errors.New("input/output error")
}

func TestIOErrorsBecome500(t *testing.T) {
	cfg := &config.Config{TracksPath: "/tracks", UserTracksBase: "/users", StorageBackend: config.BackendLocal}
	library := multitrack.NewLibrary(failingStore{}, PathsFromConfig(cfg))
	handler := NewRouter(cfg, library, nil)

	for _, path := range []string{
		"/track",
		"/track/42",
		"/tracks/user/kim",
		"/multitrack-dyn/user/kim/song/s/file/a.wav",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.Equal(t, "Internal server error", rec.Body.String(), path)
	}
}

func TestRecoverer(t *testing.T) {
	handler := recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Internal server error", string(body))
}

func TestDownloadSound_ClientGone(t *testing.T) {
	f := newFixture(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/multitrack-dyn/user/kim/song/song1/file/voice.wav", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Body.String(), "no bytes are streamed after the client went away")
}
