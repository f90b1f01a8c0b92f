package main

import (
	"context"
	"os"

	"github.com/tmarsden/discograf/internal/services"
	"github.com/tmarsden/discograf/internal/shared"
	"github.com/urfave/cli/v3"
)

// loadConfig reads the config file at path, falling back to the embedded
// defaults only when no file exists. A file that is present but does not
// parse is fatal: silently proceeding with placeholder credentials would
// send junk to the authorization endpoint.
func loadConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		return shared.DefaultConfig(), nil
	}
	return shared.LoadConfig(path)
}

func main() {
	logger := shared.NewLogger(nil)

	var spotifyService services.Service

	configPath := "config.toml"
	config, err := loadConfig(configPath)
	if err != nil {
		logger.Fatalf("could not load %s: %v", configPath, err)
	}

	if err := config.Credentials.Spotify.Validate(); err == nil {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			spotifyService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Spotify:    spotifyService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "discograf",
		Usage:    "Build Spotify playlists from an artist's full discography",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
