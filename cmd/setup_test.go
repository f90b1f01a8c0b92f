package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tmarsden/discograf/internal/shared"
	mocks "github.com/tmarsden/discograf/internal/testing"
	"github.com/urfave/cli/v3"
)

// runSetup executes the setup command through the full command tree, the
// same path main takes.
func runSetup(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{Name: "discograf", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"discograf", "setup"}, args...))
}

func TestSetup(t *testing.T) {
	t.Run("CreatesConfigAndDatabase", func(t *testing.T) {
		t.Chdir(t.TempDir())
		wd := mocks.MustGetwd(t)

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(wd, "test.db")

		var output bytes.Buffer
		runner := NewRunner(RunnerOpts{
			Config:     config,
			ConfigPath: filepath.Join(wd, "config.toml"),
			Logger:     shared.NewLogger(io.Discard),
			Output:     &output,
		})

		if err := runSetup(t, runner); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		mocks.AssertFileExists(t, filepath.Join(wd, "config.toml"))
		mocks.AssertFileExists(t, filepath.Join(wd, "test.db"))
		if !strings.Contains(output.String(), "Database ready") {
			t.Errorf("Expected completion message, got %q", output.String())
		}
	})

	t.Run("KeepsExistingConfig", func(t *testing.T) {
		t.Chdir(t.TempDir())
		wd := mocks.MustGetwd(t)

		configPath := filepath.Join(wd, "config.toml")
		existing := shared.DefaultConfig()
		existing.Credentials.Spotify.ClientID = "keep-me"
		if err := shared.SaveConfig(configPath, existing); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(wd, "test.db")

		var output bytes.Buffer
		runner := NewRunner(RunnerOpts{
			Config:     config,
			ConfigPath: configPath,
			Logger:     shared.NewLogger(io.Discard),
			Output:     &output,
		})

		if err := runSetup(t, runner); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if loaded.Credentials.Spotify.ClientID != "keep-me" {
			t.Error("Expected existing config preserved without --force")
		}
		if !strings.Contains(output.String(), "already exists") {
			t.Errorf("Expected already-exists notice, got %q", output.String())
		}
	})

	t.Run("ForceOverwrites", func(t *testing.T) {
		t.Chdir(t.TempDir())
		wd := mocks.MustGetwd(t)

		configPath := filepath.Join(wd, "config.toml")
		existing := shared.DefaultConfig()
		existing.Credentials.Spotify.ClientID = "stale-id"
		if err := shared.SaveConfig(configPath, existing); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(wd, "test.db")

		runner := NewRunner(RunnerOpts{
			Config:     config,
			ConfigPath: configPath,
			Logger:     shared.NewLogger(io.Discard),
			Output:     io.Discard,
		})

		if err := runSetup(t, runner, "--force"); err != nil {
			t.Fatalf("setup --force failed: %v", err)
		}

		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if loaded.Credentials.Spotify.ClientID == "stale-id" {
			t.Error("Expected config replaced with the template")
		}
	})
}
