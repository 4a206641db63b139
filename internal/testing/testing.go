// package testing contains shared testing utilities
package testing

import (
	"context"

	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/services"
)

// MockSocial is a test double for [services.SocialService].
// Function fields override behavior; mutation calls are recorded.
type MockSocial struct {
	NotificationsFn func(ctx context.Context) ([]models.Notification, error)
	ProfilePageFn   func(ctx context.Context, tab services.ProfileTab) ([]models.ProfileEntry, error)
	MarkReadErr     error
	FollowErrs      map[string]error

	MarkedRead []string
	Followed   []string
}

func (m *MockSocial) Authenticate(ctx context.Context) error { return nil }

func (m *MockSocial) Notifications(ctx context.Context) ([]models.Notification, error) {
	if m.NotificationsFn != nil {
		return m.NotificationsFn(ctx)
	}
	return nil, nil
}

func (m *MockSocial) MarkNotificationRead(ctx context.Context, notificationID string) error {
	if m.MarkReadErr != nil {
		return m.MarkReadErr
	}
	m.MarkedRead = append(m.MarkedRead, notificationID)
	return nil
}

func (m *MockSocial) ProfilePage(ctx context.Context, tab services.ProfileTab) ([]models.ProfileEntry, error) {
	if m.ProfilePageFn != nil {
		return m.ProfilePageFn(ctx, tab)
	}
	return nil, nil
}

func (m *MockSocial) FollowUser(ctx context.Context, userID string) error {
	if err := m.FollowErrs[userID]; err != nil {
		return err
	}
	m.Followed = append(m.Followed, userID)
	return nil
}

func (m *MockSocial) Name() string { return "mock-social" }

// MockMedia is a test double for [services.MediaService].
type MockMedia struct {
	UsersFn          func(ctx context.Context) ([]models.MediaUser, error)
	PlaylistsFn      func(ctx context.Context, userID string) ([]models.Playlist, error)
	CreatePlaylistFn func(ctx context.Context, name, userID string) (string, error)
	AudioItemsFn     func(ctx context.Context, userID, folderID string) ([]models.LibraryItem, error)
	MusicFoldersFn   func(ctx context.Context) ([]string, error)
	AddErr           error
	CoverErr         error
	RefreshErr       error

	AddedTo       map[string][]string
	CoverUploads  []string
	RefreshCalls  int
	AudioFetches  int
	FolderFetches int
}

func (m *MockMedia) Users(ctx context.Context) ([]models.MediaUser, error) {
	if m.UsersFn != nil {
		return m.UsersFn(ctx)
	}
	return nil, nil
}

func (m *MockMedia) Playlists(ctx context.Context, userID string) ([]models.Playlist, error) {
	if m.PlaylistsFn != nil {
		return m.PlaylistsFn(ctx, userID)
	}
	return nil, nil
}

func (m *MockMedia) CreatePlaylist(ctx context.Context, name, userID string) (string, error) {
	if m.CreatePlaylistFn != nil {
		return m.CreatePlaylistFn(ctx, name, userID)
	}
	return "created-playlist", nil
}

func (m *MockMedia) AddToPlaylist(ctx context.Context, playlistID string, itemIDs []string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	if m.AddedTo == nil {
		m.AddedTo = map[string][]string{}
	}
	m.AddedTo[playlistID] = append(m.AddedTo[playlistID], itemIDs...)
	return nil
}

func (m *MockMedia) UploadPlaylistCover(ctx context.Context, playlistID string, image []byte, contentType string) error {
	if m.CoverErr != nil {
		return m.CoverErr
	}
	m.CoverUploads = append(m.CoverUploads, playlistID+":"+contentType)
	return nil
}

func (m *MockMedia) MusicFolders(ctx context.Context) ([]string, error) {
	m.FolderFetches++
	if m.MusicFoldersFn != nil {
		return m.MusicFoldersFn(ctx)
	}
	return []string{"lib1"}, nil
}

func (m *MockMedia) AudioItems(ctx context.Context, userID, folderID string) ([]models.LibraryItem, error) {
	m.AudioFetches++
	if m.AudioItemsFn != nil {
		return m.AudioItemsFn(ctx, userID, folderID)
	}
	return nil, nil
}

func (m *MockMedia) RefreshLibrary(ctx context.Context) error {
	m.RefreshCalls++
	return m.RefreshErr
}

func (m *MockMedia) Name() string { return "mock-media" }

// MockDownloader is a test double for [services.Downloader].
type MockDownloader struct {
	DownloadFn func(ctx context.Context, url, dir string, opts services.DownloadOptions) (*models.DownloadOutcome, error)

	URLs []string
	Dirs []string
	Opts []services.DownloadOptions
}

func (m *MockDownloader) Download(ctx context.Context, url, dir string, opts services.DownloadOptions) (*models.DownloadOutcome, error) {
	m.URLs = append(m.URLs, url)
	m.Dirs = append(m.Dirs, dir)
	m.Opts = append(m.Opts, opts)
	if m.DownloadFn != nil {
		return m.DownloadFn(ctx, url, dir, opts)
	}
	return &models.DownloadOutcome{Type: models.TypeTrack}, nil
}
