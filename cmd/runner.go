package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tmarsden/discograf/internal/services"
	"github.com/tmarsden/discograf/internal/shared"
	"github.com/tmarsden/discograf/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds the application dependencies shared by every command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    services.Service
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Scanner
}

// RunnerOpts configures a [Runner]. Zero-value fields fall back to
// sensible defaults (stdout, stdin, a fresh logger, the default config).
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    services.Service
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a Runner from the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewScanner(opts.Input),
	}
}

// register builds the full command tree.
func (r *Runner) register() []*cli.Command {
	builders := []func(*Runner) *cli.Command{
		runCommand,
		buildCommand,
		authCommand,
		tuiCommand,
		historyCommand,
		setupCommand,
	}

	commands := make([]*cli.Command, 0, len(builders))
	for _, build := range builders {
		commands = append(commands, build(r))
	}
	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// service returns the configured Spotify service, constructing it from
// the runner's config on first use. Missing credentials surface as
// [shared.ErrMissingCredentials] before any network call happens.
func (r *Runner) service() (services.Service, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	if err := r.config.Credentials.Spotify.Validate(); err != nil {
		return nil, err
	}

	svc, err := services.NewSpotifyService(r.config.Credentials.Spotify.Map())
	if err != nil {
		return nil, err
	}
	r.spotify = svc
	return svc, nil
}

func (r *Runner) writePlain(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}

func (r *Runner) writePlainln(args ...any) {
	fmt.Fprintln(r.output, args...)
}

func (r *Runner) writeJSON(v any) error {
	encoder := json.NewEncoder(r.output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// prompt prints a label and reads one line of input. io.EOF is returned
// when the input stream is exhausted.
func (r *Runner) prompt(label string) (string, error) {
	r.writePlain("%s", label)
	if !r.input.Scan() {
		if err := r.input.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.input.Text(), nil
}

// selectArtist prints the candidates as a numbered list and reads a
// 1-based choice. Anything that does not parse to a number in range
// (including 0) cancels the selection.
func (r *Runner) selectArtist(artists []services.Artist) (services.Artist, bool) {
	r.writePlainln()
	for i, artist := range artists {
		r.writePlain("  %d. %s (%d followers)\n", i+1, artist.Name, artist.Followers)
	}

	answer, err := r.prompt(fmt.Sprintf("Select an artist [1-%d, 0 to cancel]: ", len(artists)))
	if err != nil {
		return services.Artist{}, false
	}

	choice, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || choice < 1 || choice > len(artists) {
		return services.Artist{}, false
	}
	return artists[choice-1], true
}

// saveTokens writes the token pair back to the config file so future
// sessions can skip the browser flow.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return err
	}
	return shared.SaveConfig(r.configPath, r.config)
}

func (r *Runner) newBuilder(svc services.Service) *tasks.Builder {
	return tasks.NewBuilder(svc, r.logger)
}
