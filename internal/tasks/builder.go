package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tmarsden/discograf/internal/services"
	"github.com/tmarsden/discograf/internal/shared"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// searchLimit caps artist search results presented for selection.
const searchLimit = 5

// Result contains all data from one playlist build.
type Result struct {
	Artist     services.Artist    // Selected artist
	Playlist   *services.Playlist // Created playlist
	TrackCount int                // Tracks added after deduplication
	AlbumCount int                // Unique albums fetched
	Batches    int                // Insertion requests issued
}

// Builder implements the per-artist playlist build: discography enumeration,
// track deduplication and ordering, playlist creation, and batched insertion.
type Builder struct {
	svc    services.Service
	logger *log.Logger
}

// NewBuilder creates a Builder around the given service.
func NewBuilder(svc services.Service, logger *log.Logger) *Builder {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Builder{svc: svc, logger: logger}
}

// Search queries the artist-search endpoint with the free-text name.
//
// An empty result is not an error; the caller reports "not found" and makes
// no further calls for the attempt.
func (b *Builder) Search(ctx context.Context, name string) ([]services.Artist, error) {
	if b.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	artists, err := b.svc.SearchArtists(ctx, name, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: artist search: %w", shared.ErrAPIRequest, err)
	}

	return artists, nil
}

// Build creates a playlist for the given user holding the artist's
// deduplicated, alphabetically sorted tracks.
//
// Every step runs sequentially; a batch is never sent before the previous
// one has completed. Any error propagates to the caller, which owns the
// decision to continue the session.
func (b *Builder) Build(ctx context.Context, user *services.User, artist services.Artist, progress chan<- ProgressUpdate) (*Result, error) {
	if b.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("%w: user profile required", shared.ErrInvalidArgument)
	}

	b.sendProgress(progress, fetchAlbumsUpdate(artist.Name))

	albums, err := b.svc.ArtistAlbums(ctx, artist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch albums for %s: %w", artist.Name, err)
	}

	seen := make(map[string]struct{}, len(albums))
	unique := make([]services.Album, 0, len(albums))
	for _, album := range albums {
		if _, dup := seen[album.ID]; dup {
			continue
		}
		seen[album.ID] = struct{}{}
		unique = append(unique, album)
	}

	var tracks []services.Track
	for i, album := range unique {
		b.sendProgress(progress, fetchTracksUpdate(i+1, len(unique), album.Name))

		albumTracks, err := b.svc.AlbumTracks(ctx, album.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tracks for album %s: %w", album.Name, err)
		}
		tracks = append(tracks, albumTracks...)
	}

	tracks = dedupeTracks(tracks)
	sortTracks(tracks)

	b.sendProgress(progress, createPlaylistUpdate(artist.Name))

	playlist, err := b.svc.CreatePlaylist(ctx, user.ID, artist.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	uris := make([]string, len(tracks))
	for i, track := range tracks {
		uris[i] = track.URI
	}

	batches := batchURIs(uris, services.MaxTracksPerRequest)
	for i, batch := range batches {
		b.sendProgress(progress, addTracksUpdate(i+1, len(batches)))

		if err := b.svc.AddTracks(ctx, playlist.ID, batch); err != nil {
			return nil, fmt.Errorf("failed to add tracks (batch %d/%d): %w", i+1, len(batches), err)
		}
	}

	result := &Result{
		Artist:     artist,
		Playlist:   playlist,
		TrackCount: len(tracks),
		AlbumCount: len(unique),
		Batches:    len(batches),
	}

	b.sendProgress(progress, doneUpdate(result))
	b.logger.Info("playlist built", "artist", artist.Name, "tracks", len(tracks), "url", playlist.URL)

	return result, nil
}

// sendProgress sends a progress update through the channel without blocking.
func (b *Builder) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// dedupeTracks removes tracks whose name was already seen; the first
// occurrence in album-iteration order wins.
func dedupeTracks(tracks []services.Track) []services.Track {
	seen := make(map[string]struct{}, len(tracks))
	out := tracks[:0:0]
	for _, track := range tracks {
		if _, dup := seen[track.Name]; dup {
			continue
		}
		seen[track.Name] = struct{}{}
		out = append(out, track)
	}
	return out
}

// sortTracks orders tracks by name using locale-aware comparison.
// The stable sort keeps encounter order for names the collator considers
// equal.
func sortTracks(tracks []services.Track) {
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(tracks, func(i, j int) bool {
		return c.CompareString(tracks[i].Name, tracks[j].Name) < 0
	})
}

// batchURIs splits uris into consecutive chunks of at most size, preserving
// order.
func batchURIs(uris []string, size int) [][]string {
	if len(uris) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(uris)+size-1)/size)
	for start := 0; start < len(uris); start += size {
		end := min(start+size, len(uris))
		batches = append(batches, uris[start:end])
	}
	return batches
}
