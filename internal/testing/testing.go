// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/tmarsden/discograf/internal/services"
)

// MockService is a configurable test double for [services.Service].
//
// Each operation delegates to the corresponding func field when set and
// returns zero values otherwise. Calls records the order of operations.
type MockService struct {
	AuthenticateFn   func(ctx context.Context, credentials map[string]string) error
	CurrentUserFn    func(ctx context.Context) (*services.User, error)
	SearchArtistsFn  func(ctx context.Context, query string, limit int) ([]services.Artist, error)
	ArtistAlbumsFn   func(ctx context.Context, artistID string) ([]services.Album, error)
	AlbumTracksFn    func(ctx context.Context, albumID string) ([]services.Track, error)
	CreatePlaylistFn func(ctx context.Context, userID, name string) (*services.Playlist, error)
	AddTracksFn      func(ctx context.Context, playlistID string, uris []string) error

	Calls []string
}

func (m *MockService) record(op string) {
	m.Calls = append(m.Calls, op)
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	m.record("authenticate")
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, credentials)
	}
	return nil
}

func (m *MockService) CurrentUser(ctx context.Context) (*services.User, error) {
	m.record("current_user")
	if m.CurrentUserFn != nil {
		return m.CurrentUserFn(ctx)
	}
	return &services.User{ID: "mock-user"}, nil
}

func (m *MockService) SearchArtists(ctx context.Context, query string, limit int) ([]services.Artist, error) {
	m.record("search_artists")
	if m.SearchArtistsFn != nil {
		return m.SearchArtistsFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockService) ArtistAlbums(ctx context.Context, artistID string) ([]services.Album, error) {
	m.record("artist_albums")
	if m.ArtistAlbumsFn != nil {
		return m.ArtistAlbumsFn(ctx, artistID)
	}
	return nil, nil
}

func (m *MockService) AlbumTracks(ctx context.Context, albumID string) ([]services.Track, error) {
	m.record("album_tracks")
	if m.AlbumTracksFn != nil {
		return m.AlbumTracksFn(ctx, albumID)
	}
	return nil, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, userID, name string) (*services.Playlist, error) {
	m.record("create_playlist")
	if m.CreatePlaylistFn != nil {
		return m.CreatePlaylistFn(ctx, userID, name)
	}
	return &services.Playlist{ID: "mock-playlist", Name: name}, nil
}

func (m *MockService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	m.record("add_tracks")
	if m.AddTracksFn != nil {
		return m.AddTracksFn(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing.
//
// The last outbound request is kept in Request so tests can assert on
// method, URL, headers, and body.
type MockRoundTripper struct {
	response *http.Response
	err      error

	Request *http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	m.Request = r
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
