// Jellyfin REST implementation of [MediaService]
//
// Response types based on https://api.jellyfin.org/
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/shared"
)

const (
	jellyfinClientName    = "trackdrop"
	jellyfinClientVersion = "0.1.0"

	// audioItemsLimit bounds one library page; large libraries beyond this
	// are not paginated, matching the resolver's exact-path use case.
	audioItemsLimit = 50000
)

// JellyfinUser represents a Jellyfin user account.
type JellyfinUser struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// JellyfinItem represents a library item (playlist, folder or audio file).
type JellyfinItem struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	Type           string `json:"Type"`
	Path           string `json:"Path,omitempty"`
	CollectionType string `json:"CollectionType,omitempty"`
}

// JellyfinItemsPage is the envelope for item listings.
type JellyfinItemsPage struct {
	Items            []JellyfinItem `json:"Items"`
	TotalRecordCount int            `json:"TotalRecordCount"`
}

type jellyfinCreatedPlaylist struct {
	ID string `json:"Id"`
}

// JellyfinService implements [MediaService] using an API key over REST.
type JellyfinService struct {
	baseURL    string
	apiKey     string
	deviceID   string
	httpClient *http.Client
}

// NewJellyfinService creates a Jellyfin client for the given server and API
// key. Each instance identifies itself with a fresh device id.
func NewJellyfinService(baseURL, apiKey string) *JellyfinService {
	return &JellyfinService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		deviceID:   shared.GenerateID(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the service name.
func (j *JellyfinService) Name() string {
	return "Jellyfin"
}

func (j *JellyfinService) setHeaders(req *http.Request) {
	req.Header.Set("X-MediaBrowser-Token", j.apiKey)
	req.Header.Set("X-MediaBrowser-Client", jellyfinClientName)
	req.Header.Set("X-MediaBrowser-Device-Name", jellyfinClientName)
	req.Header.Set("X-MediaBrowser-Device-Id", j.deviceID)
	req.Header.Set("X-MediaBrowser-Version", jellyfinClientVersion)
	req.Header.Set("Accept", "application/json")
}

func (j *JellyfinService) apiGet(ctx context.Context, endpoint string, params url.Values, result any) error {
	apiURL := j.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	j.setHeaders(req)

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s returned status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMalformedReply, err)
		}
	}

	return nil
}

func (j *JellyfinService) apiPost(ctx context.Context, endpoint string, body, result any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.baseURL+endpoint, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	j.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: POST %s returned status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	// 204 No Content is common on mutation endpoints.
	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMalformedReply, err)
		}
	}

	return nil
}

// Users lists all accounts on the server.
func (j *JellyfinService) Users(ctx context.Context) ([]models.MediaUser, error) {
	var jfUsers []JellyfinUser
	if err := j.apiGet(ctx, "/Users", nil, &jfUsers); err != nil {
		return nil, err
	}

	users := make([]models.MediaUser, 0, len(jfUsers))
	for _, u := range jfUsers {
		users = append(users, models.MediaUser{ID: u.ID, Name: u.Name})
	}

	return users, nil
}

// Playlists lists the playlist-type items visible to a user.
func (j *JellyfinService) Playlists(ctx context.Context, userID string) ([]models.Playlist, error) {
	params := url.Values{}
	params.Set("Recursive", "true")
	params.Set("IncludeItemTypes", "Playlist")

	var page JellyfinItemsPage
	if err := j.apiGet(ctx, "/Users/"+userID+"/Items", params, &page); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Type != "Playlist" {
			continue
		}
		playlists = append(playlists, models.Playlist{
			ID:      item.ID,
			Name:    item.Name,
			OwnerID: userID,
		})
	}

	return playlists, nil
}

// CreatePlaylist creates a new audio playlist owned by the user.
func (j *JellyfinService) CreatePlaylist(ctx context.Context, name, userID string) (string, error) {
	body := map[string]string{
		"Name":      name,
		"UserId":    userID,
		"MediaType": "Audio",
	}

	var created jellyfinCreatedPlaylist
	if err := j.apiPost(ctx, "/Playlists", body, &created); err != nil {
		return "", err
	}

	if created.ID == "" {
		return "", fmt.Errorf("%w: playlist creation returned no id", shared.ErrMalformedReply)
	}

	return created.ID, nil
}

// AddToPlaylist appends item ids to a playlist in one call.
func (j *JellyfinService) AddToPlaylist(ctx context.Context, playlistID string, itemIDs []string) error {
	body := map[string][]string{"Ids": itemIDs}
	return j.apiPost(ctx, "/Playlists/"+playlistID, body, nil)
}

// MusicFolders returns the ids of all music-collection library roots.
func (j *JellyfinService) MusicFolders(ctx context.Context) ([]string, error) {
	var page JellyfinItemsPage
	if err := j.apiGet(ctx, "/Library/MediaFolders", nil, &page); err != nil {
		return nil, err
	}

	var folderIDs []string
	for _, folder := range page.Items {
		if folder.CollectionType == "music" {
			folderIDs = append(folderIDs, folder.ID)
		}
	}

	return folderIDs, nil
}

// AudioItems lists all audio items under a library root with their paths.
func (j *JellyfinService) AudioItems(ctx context.Context, userID, folderID string) ([]models.LibraryItem, error) {
	params := url.Values{}
	params.Set("Recursive", "true")
	params.Set("ParentId", folderID)
	params.Set("IncludeItemTypes", "Audio")
	params.Set("Fields", "Path")
	params.Set("UserId", userID)
	params.Set("Limit", strconv.Itoa(audioItemsLimit))

	var page JellyfinItemsPage
	if err := j.apiGet(ctx, "/Items", params, &page); err != nil {
		return nil, err
	}

	items := make([]models.LibraryItem, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Path == "" {
			continue
		}
		items = append(items, models.LibraryItem{ID: item.ID, Path: item.Path})
	}

	return items, nil
}

// RefreshLibrary triggers a full library rescan.
func (j *JellyfinService) RefreshLibrary(ctx context.Context) error {
	return j.apiPost(ctx, "/Library/Refresh", nil, nil)
}

// UploadPlaylistCover sets the playlist's primary image. The server expects
// the image bytes base64-encoded in the request body.
func (j *JellyfinService) UploadPlaylistCover(ctx context.Context, playlistID string, image []byte, contentType string) error {
	encoded := base64.StdEncoding.EncodeToString(image)

	endpoint := "/Items/" + playlistID + "/Images/Primary/0"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.baseURL+endpoint, bytes.NewBufferString(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	j.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", fmt.Sprintf(
		`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s", Token="%s"`,
		jellyfinClientName, jellyfinClientName, j.deviceID, jellyfinClientVersion, j.apiKey,
	))

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: cover upload returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return nil
}
