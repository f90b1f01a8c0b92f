package main

import (
	"context"
	"fmt"

	"github.com/tmarsden/discograf/internal/repositories"
	"github.com/tmarsden/discograf/internal/shared"
	"github.com/urfave/cli/v3"
)

// History is the action for the history command.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("could not open history database at %s: %w (run 'discograf setup' first)", r.config.Database.Path, err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("history migrations failed: %w", err)
	}

	repo := repositories.NewHistoryRepository(db)
	records, err := repo.List(cmd.String("artist"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records)
	}

	if len(records) == 0 {
		r.writePlainln("No playlists recorded yet.")
		return nil
	}

	for _, record := range records {
		r.writePlain("%3d  %-30s  %4d tracks  %s  %s\n",
			record.Sequence,
			record.ArtistName,
			record.TrackCount,
			record.CreatedAt.Format("2006-01-02 15:04"),
			record.PlaylistURL,
		)
	}
	return nil
}
