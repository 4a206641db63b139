// package models defines the data model for the share-to-playlist bot
package models

import "strings"

// URLType classifies a share URL by its second path segment.
type URLType string

const (
	TypeTrack    URLType = "track"
	TypePlaylist URLType = "playlist"
	TypeAlbum    URLType = "album"
	TypeUnknown  URLType = "unknown"
)

// ParseURLType extracts the content type from a relative share URL.
//
// "/playlist/123" → TypePlaylist, "/track/55" → TypeTrack, "/album/9" →
// TypeAlbum; anything else is TypeUnknown.
func ParseURLType(relURL string) URLType {
	segments := strings.Split(strings.TrimPrefix(relURL, "/"), "/")
	if len(segments) == 0 {
		return TypeUnknown
	}

	switch URLType(segments[0]) {
	case TypeTrack:
		return TypeTrack
	case TypePlaylist:
		return TypePlaylist
	case TypeAlbum:
		return TypeAlbum
	default:
		return TypeUnknown
	}
}

// Notification represents a shared-link event from the social service.
type Notification struct {
	ID         string
	Title      string
	URL        string // relative path, e.g. "/playlist/123"
	Read       bool
	SenderName string
}

// DownloadRequest is derived 1:1 from an unread Notification.
type DownloadRequest struct {
	NotificationID string
	ShareURL       string // absolute
	Type           URLType
	SenderName     string
}

// DownloadOutcome is the normalized result of a download engine invocation.
//
// Name, Songs and CoverPath are populated for playlist downloads only.
type DownloadOutcome struct {
	Type      URLType
	Name      string
	Songs     []string // ordered absolute paths
	CoverPath string
}

// LibraryItem is an audio file known to the media server.
type LibraryItem struct {
	ID   string
	Path string
}

// MediaUser is a media server account.
type MediaUser struct {
	ID   string
	Name string
}

// Playlist is a named playlist owned by a media server user.
type Playlist struct {
	ID      string
	Name    string
	OwnerID string
}

// ProfileEntry is one row of a followers or following listing.
type ProfileEntry struct {
	UserID string
	Name   string
}
