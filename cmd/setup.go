package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tmarsden/discograf/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup is the action for the setup command: it writes the config
// template and initializes the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	force := cmd.Bool("force")

	if _, err := os.Stat(r.configPath); err == nil && !force {
		r.writePlain("Config file %s already exists (use --force to overwrite).\n", r.configPath)
	} else {
		if force {
			if err := os.Remove(r.configPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("could not replace config file: %w", err)
			}
		}
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			return fmt.Errorf("could not write config file: %w", err)
		}
		r.writePlain("Wrote %s. Fill in your Spotify client credentials from https://developer.spotify.com/dashboard.\n", r.configPath)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("could not open database at %s: %w", r.config.Database.Path, err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	r.writePlain("Database ready at %s.\n", r.config.Database.Path)
	return nil
}
