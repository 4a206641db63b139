// package services defines interfaces for the remote collaborators
//
// Deezer (social), Jellyfin (media server), download engine
package services

import (
	"context"

	"github.com/desertthunder/trackdrop/internal/models"
)

// ProfileTab selects a page of the bot account's social graph.
type ProfileTab string

const (
	TabFollowers ProfileTab = "followers"
	TabFollowing ProfileTab = "following"
)

// SocialService defines the authenticated surface of the social network used
// by the bot: notifications and the friend graph.
type SocialService interface {
	// Authenticate establishes a session for the bot account.
	// Returns an error if the session cookie is rejected.
	Authenticate(ctx context.Context) error

	// Notifications lists the bot account's notifications, read and unread.
	Notifications(ctx context.Context) ([]models.Notification, error)

	// MarkNotificationRead marks a single notification as read.
	MarkNotificationRead(ctx context.Context, notificationID string) error

	// ProfilePage lists one tab of the bot account's profile as a full,
	// unpaged listing.
	ProfilePage(ctx context.Context, tab ProfileTab) ([]models.ProfileEntry, error)

	// FollowUser follows the given user from the bot account.
	FollowUser(ctx context.Context, userID string) error

	// Name returns the service name (e.g. "Deezer")
	Name() string
}

// MediaService defines the authenticated surface of the media server:
// users, library items and playlist mutation.
type MediaService interface {
	// Users lists all accounts on the media server.
	Users(ctx context.Context) ([]models.MediaUser, error)

	// Playlists lists the playlist-type items visible to a user.
	Playlists(ctx context.Context, userID string) ([]models.Playlist, error)

	// CreatePlaylist creates a new audio playlist owned by the user and
	// returns its id.
	CreatePlaylist(ctx context.Context, name, userID string) (string, error)

	// AddToPlaylist appends the given item ids to a playlist. The server
	// decides de-duplication and ordering of entries.
	AddToPlaylist(ctx context.Context, playlistID string, itemIDs []string) error

	// UploadPlaylistCover sets the playlist's primary image.
	UploadPlaylistCover(ctx context.Context, playlistID string, image []byte, contentType string) error

	// MusicFolders returns the ids of all music-collection library roots.
	MusicFolders(ctx context.Context) ([]string, error)

	// AudioItems lists all audio items under a library root, with paths,
	// as visible to the given user.
	AudioItems(ctx context.Context, userID, folderID string) ([]models.LibraryItem, error)

	// RefreshLibrary triggers a full library rescan.
	RefreshLibrary(ctx context.Context) error

	// Name returns the service name (e.g. "Jellyfin")
	Name() string
}

// DownloadOptions carries the per-invocation policy for the download engine.
type DownloadOptions struct {
	Quality           string
	DuplicateHandling string // fixed process-wide to "hardlink"
	PlaylistFiles     bool   // m3u generation, disabled by the dispatcher
}

// Downloader abstracts the external content-download engine.
type Downloader interface {
	// Download fetches the shared content into dir and returns a normalized
	// outcome. Engine-reported failures surface as errors.
	Download(ctx context.Context, url, dir string, opts DownloadOptions) (*models.DownloadOutcome, error)
}
