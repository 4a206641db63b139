package tasks

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/services"
)

// duplicateHandling is fixed process-wide: the media server's scanner rejects
// symlinks and double-counts copies, so hardlinks are the only workable mode.
const duplicateHandling = "hardlink"

// Dispatcher applies download policy and invokes the engine.
type Dispatcher struct {
	engine     services.Downloader
	baseDir    string
	perUserDir bool
	quality    string
	logger     *log.Logger
}

// NewDispatcher creates a Dispatcher. When perUserDir is set, downloads land
// in a per-sender subdirectory of baseDir.
func NewDispatcher(engine services.Downloader, baseDir string, perUserDir bool, quality string, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		engine:     engine,
		baseDir:    baseDir,
		perUserDir: perUserDir,
		quality:    quality,
		logger:     logger,
	}
}

// TargetDir resolves the download directory for a sender. Sender names come
// from free-text notification quotations, so anything that is not a single
// path element falls back to the shared base directory.
func (d *Dispatcher) TargetDir(senderName string) string {
	if d.perUserDir {
		if sender := pathSafeName(senderName); sender != "" {
			return filepath.Join(d.baseDir, sender)
		}
	}
	return d.baseDir
}

// pathSafeName returns name when it is a single path element, "" otherwise.
func pathSafeName(name string) string {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return ""
	}
	return name
}

// Dispatch downloads one request and returns the normalized outcome. An
// engine error aborts further processing of that notification; the caller
// does not retry within the run.
func (d *Dispatcher) Dispatch(ctx context.Context, req models.DownloadRequest) (*models.DownloadOutcome, error) {
	dir := d.TargetDir(req.SenderName)

	d.logger.Info("starting download", "type", req.Type, "sender", req.SenderName, "dir", dir)

	outcome, err := d.engine.Download(ctx, req.ShareURL, dir, services.DownloadOptions{
		Quality:           d.quality,
		DuplicateHandling: duplicateHandling,
		// Playlist membership is modeled natively in the media server, so
		// engine-side m3u files would only clutter the library.
		PlaylistFiles: false,
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("download finished", "type", outcome.Type, "name", outcome.Name)
	return outcome, nil
}
