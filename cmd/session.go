package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tmarsden/discograf/internal/repositories"
	"github.com/tmarsden/discograf/internal/services"
	"github.com/tmarsden/discograf/internal/shared"
	"github.com/tmarsden/discograf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Session is the action for the run command: an interactive loop that
// builds one playlist per round until the user types "exit" or closes
// the input stream.
func (r *Runner) Session(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}
	if err := r.authenticate(ctx, svc); err != nil {
		return err
	}

	user, err := svc.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("could not load user profile: %w", err)
	}

	builder := r.newBuilder(svc)
	history := r.openHistory()

	r.writePlain("Logged in as %s. Type an artist name to build a playlist, or 'exit' to quit.\n", user.DisplayName)

	for {
		name, err := r.prompt("\nArtist name (or 'exit'): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.writePlainln()
				return nil
			}
			return err
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "exit") {
			r.writePlainln("Goodbye.")
			return nil
		}

		if err := r.buildRound(ctx, builder, history, user, name); err != nil {
			if errors.Is(err, shared.ErrArtistNotFound) {
				r.writePlain("No artist found for '%s'.\n", name)
				continue
			}
			r.logger.Error("playlist build failed", "artist", name, "error", err)
			if errors.Is(err, shared.ErrTokenExpired) {
				r.writePlainln("Your session expired. Run 'discograf auth' and start again.")
				return err
			}
		}
	}
}

// BuildOne is the action for the build command: a single round for the
// artist named on the command line.
func (r *Runner) BuildOne(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	svc, err := r.service()
	if err != nil {
		return err
	}
	if err := r.authenticate(ctx, svc); err != nil {
		return err
	}

	user, err := svc.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("could not load user profile: %w", err)
	}

	return r.buildRound(ctx, r.newBuilder(svc), r.openHistory(), user, name)
}

// buildRound runs one search → select → build round. A search with no
// matches reports [shared.ErrArtistNotFound]; a cancelled selection ends
// the round without error.
func (r *Runner) buildRound(ctx context.Context, builder *tasks.Builder, history *repositories.HistoryRepository, user *services.User, name string) error {
	artists, err := builder.Search(ctx, name)
	if err != nil {
		return err
	}
	if len(artists) == 0 {
		return fmt.Errorf("%w: %q", shared.ErrArtistNotFound, name)
	}

	artist, ok := r.selectArtist(artists)
	if !ok {
		return nil
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progress {
			r.writePlain("  %s\n", update.Message)
		}
	}()

	result, err := builder.Build(ctx, user, artist, progress)
	close(progress)
	<-printed
	if err != nil {
		return err
	}

	if history != nil {
		record := &repositories.Record{
			ArtistID:    result.Artist.ID,
			ArtistName:  result.Artist.Name,
			PlaylistID:  result.Playlist.ID,
			PlaylistURL: result.Playlist.URL,
			TrackCount:  result.TrackCount,
		}
		if err := history.Create(record); err != nil {
			r.logger.Warn("could not record playlist in history", "error", err)
		}
	}

	r.writePlain("\n✓ Created playlist '%s' with %d tracks (%d albums, %d batches)\n", result.Playlist.Name, result.TrackCount, result.AlbumCount, result.Batches)
	if result.Playlist.URL != "" {
		r.writePlain("  %s\n", result.Playlist.URL)
	}
	return nil
}

// openHistory opens the history database. Failures are logged and
// reported as a nil repository; playlist building works without one.
func (r *Runner) openHistory() *repositories.HistoryRepository {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warn("history database unavailable", "path", r.config.Database.Path, "error", err)
		return nil
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("history migrations failed", "error", err)
		db.Close()
		return nil
	}

	return repositories.NewHistoryRepository(db)
}
