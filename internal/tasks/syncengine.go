package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
)

// SyncPolicy controls how the engine reconciles the eventually-consistent
// remote library with freshly downloaded files.
type SyncPolicy struct {
	// RefreshBeforeResolve triggers a library rescan before building the
	// path index, closing the gap between a finished download and the file
	// becoming visible as a library item.
	RefreshBeforeResolve bool
	// RefreshSettle is how long to wait after the rescan trigger before
	// resolving paths.
	RefreshSettle time.Duration
}

// SyncEngine mirrors a downloaded playlist into the media server as a named,
// cover-illustrated playlist owned by the sender's account.
type SyncEngine struct {
	media  services.MediaService
	policy SyncPolicy
	logger *log.Logger
}

// NewSyncEngine creates a SyncEngine over the given media service.
func NewSyncEngine(media services.MediaService, policy SyncPolicy, logger *log.Logger) *SyncEngine {
	return &SyncEngine{
		media:  media,
		policy: policy,
		logger: logger,
	}
}

// Sync pushes a playlist download outcome into the media server. Remote
// failures abandon this sync only; the caller logs and moves on, and nothing
// is retried. Cover upload problems and unresolved songs are non-fatal.
func (s *SyncEngine) Sync(ctx context.Context, outcome *models.DownloadOutcome, senderName string) error {
	if outcome.Type != models.TypePlaylist {
		return nil
	}

	user, err := s.userByName(ctx, senderName)
	if err != nil {
		return err
	}

	playlistID, err := s.getOrCreatePlaylist(ctx, outcome.Name, user.ID)
	if err != nil {
		return err
	}

	s.uploadCover(ctx, playlistID, outcome.CoverPath)

	// A fresh index per attempt: a rescan between attempts (triggered below
	// or by the server's own watcher) is visible to the next sync.
	index := NewLibraryIndex(s.media, s.logger)

	if s.policy.RefreshBeforeResolve {
		if err := s.media.RefreshLibrary(ctx); err != nil {
			s.logger.Warn("library refresh failed, resolving against possibly stale index", "err", err)
		} else if s.policy.RefreshSettle > 0 {
			select {
			case <-time.After(s.policy.RefreshSettle):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	var resolved []string
	for _, songPath := range outcome.Songs {
		id, found, err := index.Resolve(ctx, user.ID, songPath)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", songPath, err)
		}
		if !found {
			s.logger.Warn("song not found in library, skipping", "path", songPath)
			continue
		}
		resolved = append(resolved, id)
	}

	if len(resolved) == 0 {
		s.logger.Warn("no songs resolved, playlist left unchanged",
			"playlist", outcome.Name, "songs", len(outcome.Songs))
		return nil
	}

	if err := s.media.AddToPlaylist(ctx, playlistID, resolved); err != nil {
		return err
	}

	s.logger.Info("playlist synced",
		"playlist", outcome.Name, "added", len(resolved), "total", len(outcome.Songs))
	return nil
}

// userByName finds the media server account matching the sender name,
// case-insensitively.
func (s *SyncEngine) userByName(ctx context.Context, name string) (*models.MediaUser, error) {
	users, err := s.media.Users(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if strings.EqualFold(user.Name, name) {
			return &user, nil
		}
	}

	return nil, fmt.Errorf("%w: no media server account named %q", shared.ErrUserNotFound, name)
}

// getOrCreatePlaylist returns the id of the user's playlist with an exact
// name match, creating it when absent. Identity is (name, owner).
func (s *SyncEngine) getOrCreatePlaylist(ctx context.Context, name, userID string) (string, error) {
	playlists, err := s.media.Playlists(ctx, userID)
	if err != nil {
		return "", err
	}

	for _, playlist := range playlists {
		if playlist.Name == name {
			s.logger.Debug("found existing playlist", "name", name, "id", playlist.ID)
			return playlist.ID, nil
		}
	}

	id, err := s.media.CreatePlaylist(ctx, name, userID)
	if err != nil {
		return "", err
	}

	s.logger.Info("created playlist", "name", name, "id", id)
	return id, nil
}

// uploadCover sets the playlist cover. Missing files, unsupported formats and
// upload failures are logged and tolerated; the sync continues without a
// cover.
func (s *SyncEngine) uploadCover(ctx context.Context, playlistID, coverPath string) {
	if coverPath == "" {
		return
	}

	contentType, err := coverContentType(coverPath)
	if err != nil {
		s.logger.Warn("skipping playlist cover", "path", coverPath, "err", err)
		return
	}

	image, err := os.ReadFile(coverPath)
	if err != nil {
		s.logger.Warn("cover file unreadable, skipping", "path", coverPath, "err", err)
		return
	}

	if err := s.media.UploadPlaylistCover(ctx, playlistID, image, contentType); err != nil {
		s.logger.Warn("cover upload failed", "playlist", playlistID, "err", err)
		return
	}

	s.logger.Debug("cover uploaded", "playlist", playlistID, "path", coverPath)
}

// coverContentType maps a cover file extension to its MIME type. Only JPEG
// and PNG survive the media server's direct upload path.
func coverContentType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".png":
		return "image/png", nil
	default:
		return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedImage, filepath.Ext(path))
	}
}
