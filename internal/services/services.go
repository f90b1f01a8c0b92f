package services

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Service defines the operations the playlist builder needs from a music
// streaming provider.
type Service interface {
	// Authenticate performs OAuth authentication with the service.
	// Expects either an "access_token" or "auth_code" in credentials.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*User, error)

	// SearchArtists searches artists by free-text name, returning at most
	// limit results.
	SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error)

	// ArtistAlbums retrieves the albums and singles of an artist.
	ArtistAlbums(ctx context.Context, artistID string) ([]Album, error)

	// AlbumTracks retrieves the track listing of an album.
	AlbumTracks(ctx context.Context, albumID string) ([]Track, error)

	// CreatePlaylist creates a public playlist owned by the given user.
	CreatePlaylist(ctx context.Context, userID, name string) (*Playlist, error)

	// AddTracks appends track URIs to a playlist. Callers batch; a single
	// call sends a single request.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService is a [Service] that authenticates via the OAuth2
// authorization-code flow.
type OAuthService interface {
	Service

	// GetAuthURL returns the authorization URL for user login.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 configuration for the
	// callback handler's token exchange.
	GetOAuthConfig() *oauth2.Config
}

// User represents the authenticated user's profile.
type User struct {
	ID          string
	DisplayName string
}

// Artist represents an artist search result.
type Artist struct {
	ID        string
	Name      string
	Followers int
}

// Album represents an album or single in an artist's discography.
type Album struct {
	ID   string
	Name string
}

// Track represents a track within an album.
type Track struct {
	Name string
	URI  string
}

// Playlist represents a created playlist.
type Playlist struct {
	ID   string
	Name string
	URL  string
}

// APIError is returned for non-success HTTP responses, carrying the status
// code and the raw response text.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d: %s", e.Status, e.Body)
}
