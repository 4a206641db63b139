package tasks

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
	mocks "github.com/desertthunder/trackdrop/internal/testing"
)

func TestDispatcher(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	request := models.DownloadRequest{
		NotificationID: "1",
		ShareURL:       "https://deezer.com/us/playlist/123",
		Type:           models.TypePlaylist,
		SenderName:     "Alice",
	}

	t.Run("TargetDir", func(t *testing.T) {
		tc := []struct {
			name    string
			perUser bool
			sender  string
			want    string
		}{
			{"per user enabled", true, "Alice", "/music/Alice"},
			{"per user disabled", false, "Alice", "/music"},
			{"per user with empty sender", true, "", "/music"},
			{"traversal sender stays in base", true, "../../tmp", "/music"},
			{"separator in sender stays in base", true, "a/b", "/music"},
			{"dot dot sender stays in base", true, "..", "/music"},
			{"dot sender stays in base", true, ".", "/music"},
			{"absolute sender stays in base", true, "/etc", "/music"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				d := NewDispatcher(&mocks.MockDownloader{}, "/music", tt.perUser, "flac", logger)
				if got := d.TargetDir(tt.sender); got != tt.want {
					t.Errorf("TargetDir(%q) = %q, want %q", tt.sender, got, tt.want)
				}
			})
		}
	})

	t.Run("Dispatch", func(t *testing.T) {
		engine := &mocks.MockDownloader{
			DownloadFn: func(ctx context.Context, url, dir string, opts services.DownloadOptions) (*models.DownloadOutcome, error) {
				return &models.DownloadOutcome{Type: models.TypePlaylist, Name: "Road Trip"}, nil
			},
		}
		d := NewDispatcher(engine, "/music", true, "flac", logger)

		outcome, err := d.Dispatch(context.Background(), request)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome.Name != "Road Trip" {
			t.Errorf("unexpected outcome: %+v", outcome)
		}

		if engine.URLs[0] != request.ShareURL {
			t.Errorf("expected engine invoked with share url, got %s", engine.URLs[0])
		}
		if engine.Dirs[0] != "/music/Alice" {
			t.Errorf("expected per-user dir, got %s", engine.Dirs[0])
		}

		opts := engine.Opts[0]
		if opts.DuplicateHandling != "hardlink" {
			t.Errorf("duplicate handling must be hardlink, got %s", opts.DuplicateHandling)
		}
		if opts.PlaylistFiles {
			t.Error("m3u generation must be disabled")
		}
		if opts.Quality != "flac" {
			t.Errorf("expected configured quality, got %s", opts.Quality)
		}
	})

	t.Run("Engine Error Aborts", func(t *testing.T) {
		engine := &mocks.MockDownloader{
			DownloadFn: func(ctx context.Context, url, dir string, opts services.DownloadOptions) (*models.DownloadOutcome, error) {
				return nil, errors.New("region locked")
			},
		}
		d := NewDispatcher(engine, "/music", false, "", logger)

		if _, err := d.Dispatch(context.Background(), request); err == nil {
			t.Error("expected engine error to surface")
		}
	})
}
