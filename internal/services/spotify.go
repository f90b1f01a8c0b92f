// Spotify API implementation of [Service].
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tmarsden/discograf/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Spotify allows at most 100 track URIs per playlist-add request.
const MaxTracksPerRequest = 100

type followers struct {
	Total int `json:"total"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// spotifyUser represents a Spotify user profile.
type spotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// spotifyArtist represents a Spotify artist.
type spotifyArtist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Followers followers `json:"followers"`
	URI       string    `json:"uri"`
}

// spotifyAlbum represents a simplified Spotify album object.
type spotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AlbumGroup  string `json:"album_group"`
	ReleaseDate string `json:"release_date"`
	URI         string `json:"uri"`
}

// spotifyTrack represents a simplified Spotify track object.
type spotifyTrack struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// spotifyPlaylist represents a Spotify playlist.
type spotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs externalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

type searchResponse struct {
	Artists struct {
		Items []spotifyArtist `json:"items"`
	} `json:"artists"`
}

type pagedAlbums struct {
	Items []spotifyAlbum `json:"items"`
	Total int            `json:"total"`
	Next  *string        `json:"next"`
}

type pagedTracks struct {
	Items []spotifyTrack `json:"items"`
	Total int            `json:"total"`
	Next  *string        `json:"next"`
}

// SpotifyService implements [OAuthService] for Spotify API interactions.
//
// Uses [oauth2] for authentication; outbound requests are paced by a
// client-side limiter so bursts of album fetches stay under Spotify's
// rate ceiling.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("missing client_id in credentials")
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("missing client_secret in credentials")
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://127.0.0.1:8000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"playlist-modify-public"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
	}, nil
}

// Authenticate performs OAuth2 authentication with Spotify. Expects either an
// "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		}
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("failed to exchange auth code: %w", err)
		}
		s.token = token
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code in credentials", shared.ErrNotAuthenticated)
}

// SetToken installs an already-exchanged token, e.g. one produced by the
// callback handler.
func (s *SpotifyService) SetToken(token *oauth2.Token) {
	s.token = token
}

// SetHTTPClient replaces the HTTP client used for API requests.
func (s *SpotifyService) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// GetOAuthConfig returns the OAuth2 configuration.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// doRequest performs an authenticated HTTP request to the Spotify API.
//
// Non-success statuses surface as [*APIError] carrying the status code and
// raw response text; a 401 is additionally wrapped in
// [shared.ErrTokenExpired].
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request cancelled: %w", err)
	}

	apiURL := spotifyBaseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode, Body: string(text)}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %v", shared.ErrTokenExpired, apiErr)
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*User, error) {
	var user spotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &User{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// SearchArtists searches artists by free-text name, returning at most limit results.
func (s *SpotifyService) SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=artist&limit=%d", url.QueryEscape(query), limit)

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(response.Artists.Items))
	for _, item := range response.Artists.Items {
		artists = append(artists, Artist{
			ID:        item.ID,
			Name:      item.Name,
			Followers: item.Followers.Total,
		})
	}

	return artists, nil
}

// ArtistAlbums retrieves the albums and singles of an artist, paged at 50.
func (s *SpotifyService) ArtistAlbums(ctx context.Context, artistID string) ([]Album, error) {
	endpoint := fmt.Sprintf("/artists/%s/albums?include_groups=album,single&limit=50", artistID)

	var response pagedAlbums
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(response.Items))
	for _, item := range response.Items {
		albums = append(albums, Album{ID: item.ID, Name: item.Name})
	}

	return albums, nil
}

// AlbumTracks retrieves the track listing of an album, paged at 50.
func (s *SpotifyService) AlbumTracks(ctx context.Context, albumID string) ([]Track, error) {
	endpoint := fmt.Sprintf("/albums/%s/tracks?limit=50", albumID)

	var response pagedTracks
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(response.Items))
	for _, item := range response.Items {
		tracks = append(tracks, Track{Name: item.Name, URI: item.URI})
	}

	return tracks, nil
}

// CreatePlaylist creates a public playlist owned by the given user, named
// after the artist, with no description.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name string) (*Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))

	body := map[string]any{
		"name":   name,
		"public": true,
	}

	var playlist spotifyPlaylist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &Playlist{
		ID:   playlist.ID,
		Name: playlist.Name,
		URL:  playlist.ExternalURLs.Spotify,
	}, nil
}

// AddTracks appends up to [MaxTracksPerRequest] track URIs to a playlist in
// a single request.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > MaxTracksPerRequest {
		return fmt.Errorf("%w: at most %d tracks per request", shared.ErrInvalidArgument, MaxTracksPerRequest)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	body := map[string]any{"uris": uris}

	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}
