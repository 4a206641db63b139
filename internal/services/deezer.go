// Deezer gateway implementation of [SocialService]
//
// The gw-light gateway is a single POST endpoint dispatching on a method
// query parameter. Field names below mirror the gateway's JSON.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/shared"
	"golang.org/x/time/rate"
)

const defaultDeezerBaseURL = "https://www.deezer.com"

const gatewayPath = "/ajax/gw-light.php"

// profilePageSize bounds a profile tab to one "page"; large enough that the
// listing is effectively unpaged.
const profilePageSize = 10000

// flexID decodes gateway ids, which arrive as either JSON strings or numbers
// depending on the method.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	*f = flexID(strings.Trim(string(data), `"`))
	return nil
}

type gatewayEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Results json.RawMessage `json:"results"`
}

type deezerUserData struct {
	CheckForm string `json:"checkForm"`
	User      struct {
		UserID flexID `json:"USER_ID"`
	} `json:"USER"`
}

type deezerQuotation struct {
	Title string `json:"title"`
}

// DeezerNotification represents one entry of the user menu notification feed.
type DeezerNotification struct {
	ID        flexID          `json:"id"`
	Title     string          `json:"title"`
	URL       string          `json:"url"`
	Read      bool            `json:"read"`
	Quotation deezerQuotation `json:"quotation"`
}

type deezerUserMenu struct {
	Notifications struct {
		Data []DeezerNotification `json:"data"`
	} `json:"NOTIFICATIONS"`
}

// DeezerProfileEntry represents one row of a profile tab listing.
type DeezerProfileEntry struct {
	UserID   flexID `json:"USER_ID"`
	BlogName string `json:"BLOG_NAME"`
}

type deezerProfileTab struct {
	Data []DeezerProfileEntry `json:"data"`
}

type deezerPageProfile struct {
	Tab map[string]deezerProfileTab `json:"TAB"`
}

// DeezerService implements [SocialService] against the gw-light gateway.
// The session is bound to the bot account's ARL cookie.
type DeezerService struct {
	baseURL    string
	arl        string
	httpClient *http.Client
	limiter    *rate.Limiter

	csrfToken string
	userID    string
}

// NewDeezerService creates a Deezer gateway client for the given ARL cookie.
// An empty baseURL selects the production gateway.
func NewDeezerService(baseURL, arl string) *DeezerService {
	if baseURL == "" {
		baseURL = defaultDeezerBaseURL
	}

	jar, _ := cookiejar.New(nil)

	return &DeezerService{
		baseURL:    baseURL,
		arl:        arl,
		httpClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
	}
}

// Name returns the service name.
func (d *DeezerService) Name() string {
	return "Deezer"
}

// Authenticate bootstraps the gateway session: plants the ARL cookie and
// fetches the CSRF token and bot user id via deezer.getUserData.
func (d *DeezerService) Authenticate(ctx context.Context) error {
	base, err := url.Parse(d.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	d.httpClient.Jar.SetCookies(base, []*http.Cookie{{Name: "arl", Value: d.arl}})

	var data deezerUserData
	if err := d.gwRequest(ctx, "deezer.getUserData", nil, &data); err != nil {
		return err
	}

	if data.CheckForm == "" {
		return fmt.Errorf("%w: no checkForm in user data", shared.ErrAuthFailed)
	}

	d.csrfToken = data.CheckForm
	d.userID = string(data.User.UserID)
	return nil
}

// gwRequest performs one gateway call and decodes its results into result.
func (d *DeezerService) gwRequest(ctx context.Context, method string, payload, result any) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	token := d.csrfToken
	if token == "" {
		// Session bootstrap runs before any token exists.
		token = "null"
	}

	query := url.Values{}
	query.Set("method", method)
	query.Set("input", "3")
	query.Set("api_version", "1.0")
	query.Set("api_token", token)
	apiURL := d.baseURL + gatewayPath + "?" + query.Encode()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, method, resp.StatusCode)
	}

	var envelope gatewayEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedReply, err)
	}

	if gwErr := strings.TrimSpace(string(envelope.Error)); gwErr != "" && gwErr != "[]" && gwErr != "{}" && gwErr != "null" && gwErr != "false" {
		if strings.Contains(gwErr, "NEED_USER_AUTH_REQUIRED") {
			return fmt.Errorf("%w: gateway rejected session, check the ARL cookie", shared.ErrAuthFailed)
		}
		return fmt.Errorf("%w: %s: %s", shared.ErrAPIRequest, method, gwErr)
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Results, result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMalformedReply, err)
		}
	}

	return nil
}

// Notifications lists the bot account's notification feed.
func (d *DeezerService) Notifications(ctx context.Context) ([]models.Notification, error) {
	var menu deezerUserMenu
	if err := d.gwRequest(ctx, "deezer.userMenu", nil, &menu); err != nil {
		return nil, err
	}

	notifications := make([]models.Notification, 0, len(menu.Notifications.Data))
	for _, n := range menu.Notifications.Data {
		notifications = append(notifications, models.Notification{
			ID:         string(n.ID),
			Title:      n.Title,
			URL:        n.URL,
			Read:       n.Read,
			SenderName: shared.SenderName(n.Quotation.Title),
		})
	}

	return notifications, nil
}

// MarkNotificationRead marks a single notification as read.
func (d *DeezerService) MarkNotificationRead(ctx context.Context, notificationID string) error {
	payload := map[string]any{
		"notif_ids": []any{numericID(notificationID)},
	}
	return d.gwRequest(ctx, "notification.markAsRead", payload, nil)
}

// ProfilePage lists one tab of the bot account's profile.
func (d *DeezerService) ProfilePage(ctx context.Context, tab ProfileTab) ([]models.ProfileEntry, error) {
	if d.userID == "" {
		return nil, shared.ErrNotAuthenticated
	}

	payload := map[string]any{
		"USER_ID": numericID(d.userID),
		"tab":     string(tab),
		"nb":      profilePageSize,
	}

	var page deezerPageProfile
	if err := d.gwRequest(ctx, "deezer.pageProfile", payload, &page); err != nil {
		return nil, err
	}

	entries := make([]models.ProfileEntry, 0, len(page.Tab[string(tab)].Data))
	for _, e := range page.Tab[string(tab)].Data {
		entries = append(entries, models.ProfileEntry{
			UserID: string(e.UserID),
			Name:   e.BlogName,
		})
	}

	return entries, nil
}

// FollowUser follows the given user from the bot account.
func (d *DeezerService) FollowUser(ctx context.Context, userID string) error {
	payload := map[string]any{
		"friend_id": numericID(userID),
		"ctxt": map[string]any{
			"id": numericID(userID),
			"t":  "profile_page",
		},
	}
	return d.gwRequest(ctx, "friend.follow", payload, nil)
}

// numericID restores the gateway's numeric ids in request payloads; ids that
// were never numeric pass through as strings.
func numericID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
