package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
	tu "github.com/desertthunder/trackdrop/internal/testing"
	"github.com/urfave/cli/v3"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[deezer]
bot_arl_cookie = "abc123"

[downloads]
music_download_path = "` + dir + `"
per_user_directory = true

[jellyfin]
server_url = "http://jellyfin.local"
api_key = "key"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "trackdrop",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"trackdrop"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			social := &tu.MockSocial{}
			media := &tu.MockMedia{}
			engine := &tu.MockDownloader{}

			runner := NewRunner(RunnerOpts{
				Social: social,
				Media:  media,
				Engine: engine,
				Logger: logger,
				Output: output,
			})

			if runner.social != social {
				t.Error("expected social to be set")
			}
			if runner.media != media {
				t.Error("expected media to be set")
			}
			if runner.engine != engine {
				t.Error("expected engine to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("collaborators builds real clients when none injected", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
			config := shared.DefaultConfig()
			config.Deezer.BotARLCookie = "abc"
			config.Jellyfin.ServerURL = "http://jellyfin.local"
			config.Jellyfin.APIKey = "key"

			social, media, engine := runner.collaborators(config)
			if _, ok := social.(*services.DeezerService); !ok {
				t.Errorf("expected DeezerService, got %T", social)
			}
			if _, ok := media.(*services.JellyfinService); !ok {
				t.Errorf("expected JellyfinService, got %T", media)
			}
			if _, ok := engine.(*services.CommandDownloader); !ok {
				t.Errorf("expected CommandDownloader, got %T", engine)
			}
		})
	})

	t.Run("Setup", func(t *testing.T) {
		t.Run("creates starter config", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runCLI(t, runner, "setup", "-c", path); err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected config file at %s: %v", path, err)
			}
			if !strings.Contains(output.String(), "Next steps") {
				t.Errorf("expected next steps in output, got: %s", output.String())
			}
		})

		t.Run("reports incomplete existing config", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("[deezer]\n"), 0644); err != nil {
				t.Fatal(err)
			}

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runCLI(t, runner, "setup", "-c", path); err != nil {
				t.Fatalf("setup should not fail on incomplete config: %v", err)
			}
			if !strings.Contains(output.String(), "incomplete") {
				t.Errorf("expected incomplete warning, got: %s", output.String())
			}
		})

		t.Run("accepts valid existing config", func(t *testing.T) {
			path := writeTestConfig(t)
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runCLI(t, runner, "setup", "-c", path); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			if !strings.Contains(output.String(), "valid") {
				t.Errorf("expected valid confirmation, got: %s", output.String())
			}
		})
	})

	t.Run("Poll", func(t *testing.T) {
		t.Run("dry run lists without marking read", func(t *testing.T) {
			path := writeTestConfig(t)
			social := &tu.MockSocial{
				NotificationsFn: func(ctx context.Context) ([]models.Notification, error) {
					return []models.Notification{
						{ID: "n1", URL: "/playlist/1", Read: false, SenderName: "bob"},
						{ID: "n2", URL: "/track/2", Read: true, SenderName: "alice"},
					}, nil
				},
			}
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Social: social,
				Media:  &tu.MockMedia{},
				Engine: &tu.MockDownloader{},
				Output: output,
			})

			if err := runCLI(t, runner, "poll", "--dry-run", "-c", path); err != nil {
				t.Fatalf("poll failed: %v", err)
			}

			if len(social.MarkedRead) != 0 {
				t.Errorf("dry run must not mark notifications read, got %v", social.MarkedRead)
			}
			if !strings.Contains(output.String(), "/playlist/1") {
				t.Errorf("expected pending share in output, got: %s", output.String())
			}
			if strings.Contains(output.String(), "/track/2") {
				t.Errorf("read notification should not be listed, got: %s", output.String())
			}
		})

		t.Run("processes pending shares", func(t *testing.T) {
			path := writeTestConfig(t)
			social := &tu.MockSocial{
				NotificationsFn: func(ctx context.Context) ([]models.Notification, error) {
					return []models.Notification{
						{ID: "n1", URL: "/playlist/1", Read: false, SenderName: "bob"},
					}, nil
				},
			}
			media := &tu.MockMedia{
				UsersFn: func(ctx context.Context) ([]models.MediaUser, error) {
					return []models.MediaUser{{ID: "u-bob", Name: "bob"}}, nil
				},
				AudioItemsFn: func(ctx context.Context, userID, folderID string) ([]models.LibraryItem, error) {
					return []models.LibraryItem{{ID: "i1", Path: "/music/bob/one.flac"}}, nil
				},
			}
			engine := &tu.MockDownloader{
				DownloadFn: func(ctx context.Context, url, dir string, opts services.DownloadOptions) (*models.DownloadOutcome, error) {
					return &models.DownloadOutcome{
						Type:  models.TypePlaylist,
						Name:  "Summer Mix",
						Songs: []string{"/music/bob/one.flac"},
					}, nil
				},
			}
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Social: social,
				Media:  media,
				Engine: engine,
				Output: output,
			})

			if err := runCLI(t, runner, "poll", "-c", path); err != nil {
				t.Fatalf("poll failed: %v", err)
			}

			if len(social.MarkedRead) != 1 || social.MarkedRead[0] != "n1" {
				t.Errorf("expected n1 marked read, got %v", social.MarkedRead)
			}
			if got := media.AddedTo["created-playlist"]; len(got) != 1 || got[0] != "i1" {
				t.Errorf("expected song added to playlist, got %v", media.AddedTo)
			}
			if !strings.Contains(output.String(), "1 succeeded, 0 failed") {
				t.Errorf("expected success summary, got: %s", output.String())
			}
		})

		t.Run("missing config fails", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runCLI(t, runner, "poll", "-c", filepath.Join(t.TempDir(), "absent.toml"))
			if err == nil {
				t.Fatal("expected error for missing config")
			}
		})
	})

	t.Run("Friends", func(t *testing.T) {
		social := func() *tu.MockSocial {
			return &tu.MockSocial{
				ProfilePageFn: func(ctx context.Context, tab services.ProfileTab) ([]models.ProfileEntry, error) {
					if tab == services.TabFollowers {
						return []models.ProfileEntry{{UserID: "1", Name: "carol"}, {UserID: "2", Name: "dave"}}, nil
					}
					return []models.ProfileEntry{{UserID: "2", Name: "dave"}}, nil
				},
			}
		}

		t.Run("dry run lists gap without following", func(t *testing.T) {
			path := writeTestConfig(t)
			s := social()
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Social: s, Output: output})

			if err := runCLI(t, runner, "friends", "--dry-run", "-c", path); err != nil {
				t.Fatalf("friends failed: %v", err)
			}

			if len(s.Followed) != 0 {
				t.Errorf("dry run must not follow anyone, got %v", s.Followed)
			}
			if !strings.Contains(output.String(), "carol") {
				t.Errorf("expected carol in gap, got: %s", output.String())
			}
		})

		t.Run("follows back the gap", func(t *testing.T) {
			path := writeTestConfig(t)
			s := social()
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Social: s, Output: output})

			if err := runCLI(t, runner, "friends", "-c", path); err != nil {
				t.Fatalf("friends failed: %v", err)
			}

			if len(s.Followed) != 1 || s.Followed[0] != "1" {
				t.Errorf("expected only carol followed, got %v", s.Followed)
			}
		})
	})
}
