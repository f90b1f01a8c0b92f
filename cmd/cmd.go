package main

import "github.com/urfave/cli/v3"

func runCommand(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:        "run",
		Usage:       "Start an interactive playlist-building session",
		Description: "Authorizes with Spotify, then repeatedly prompts for an artist name until 'exit'. Each round searches for the artist, offers a pick from the top matches, and builds a public playlist from the artist's albums and singles.",
		Action:      runner.Session,
	}
}

func buildCommand(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Build a playlist for a single artist and exit",
		ArgsUsage: "<artist name>",
		Action:    runner.BuildOne,
	}
}

func authCommand(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:        "auth",
		Usage:       "Authorize with Spotify and store the tokens",
		Description: "Runs the browser authorization flow and writes the resulting access and refresh tokens to the config file.",
		Action:      runner.Auth,
	}
}

func tuiCommand(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal interface",
		Action: runner.TUI,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to a file instead of stderr",
				Value: "discograf.log",
			},
		},
	}
}

func historyCommand(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:   "history",
		Usage:  "List previously created playlists",
		Action: runner.History,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Only show playlists for this artist ID",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print records as JSON",
			},
		},
	}
}

func setupCommand(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:        "setup",
		Usage:       "Create the config file and initialize the database",
		Description: "Writes a config.toml template if one does not exist and runs the database migrations.",
		Action:      runner.Setup,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
	}
}
