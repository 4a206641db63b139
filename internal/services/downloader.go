// Exec adapter for the external download engine
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/shared"
)

// Executor abstracts command execution for the downloader.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// commandExecutor executes commands using os/exec.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, err
	}
	return out, nil
}

// engineOutcome is the JSON document the engine prints on stdout.
type engineOutcome struct {
	Type  string   `json:"type"`
	Name  string   `json:"name"`
	Songs []string `json:"songs"`
	Cover string   `json:"cover"`
	Error string   `json:"error"`
}

// CommandDownloader implements [Downloader] by shelling out to a configured
// engine binary and parsing its JSON outcome.
type CommandDownloader struct {
	binary string
	exec   Executor
}

// NewCommandDownloader constructs a downloader for the provided engine binary.
func NewCommandDownloader(binary string) *CommandDownloader {
	return newCommandDownloader(strings.TrimSpace(binary), commandExecutor{})
}

func newCommandDownloader(binary string, exec Executor) *CommandDownloader {
	return &CommandDownloader{binary: binary, exec: exec}
}

// Download invokes the engine and normalizes its outcome.
func (c *CommandDownloader) Download(ctx context.Context, url, dir string, opts DownloadOptions) (*models.DownloadOutcome, error) {
	if c.binary == "" {
		return nil, fmt.Errorf("%w: no engine binary configured", shared.ErrDownloadFailed)
	}

	args := buildEngineArgs(url, dir, opts)

	out, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDownloadFailed, err)
	}

	return parseEngineOutcome(out)
}

func buildEngineArgs(url, dir string, opts DownloadOptions) []string {
	args := []string{}
	if opts.Quality != "" {
		args = append(args, "--quality", opts.Quality)
	}
	args = append(args, "--path", dir)
	if opts.DuplicateHandling != "" {
		args = append(args, "--duplicates", opts.DuplicateHandling)
	}
	if !opts.PlaylistFiles {
		args = append(args, "--no-playlist-file")
	}
	args = append(args, "--json", url)
	return args
}

func parseEngineOutcome(out []byte) (*models.DownloadOutcome, error) {
	var outcome engineOutcome
	if err := json.Unmarshal(out, &outcome); err != nil {
		return nil, fmt.Errorf("%w: engine output was not valid JSON: %v", shared.ErrDownloadFailed, err)
	}

	if outcome.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrDownloadFailed, outcome.Error)
	}

	urlType := models.URLType(outcome.Type)
	switch urlType {
	case models.TypeTrack, models.TypeAlbum, models.TypePlaylist:
	default:
		return nil, fmt.Errorf("%w: engine reported type %q", shared.ErrUnsupportedContent, outcome.Type)
	}

	return &models.DownloadOutcome{
		Type:      urlType,
		Name:      outcome.Name,
		Songs:     outcome.Songs,
		CoverPath: outcome.Cover,
	}, nil
}
