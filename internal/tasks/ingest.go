package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/services"
)

// Ingestor polls the social service and turns unread notifications into
// download requests. It keeps no state across polls; read-marking at the
// remote service is the only dedup mechanism.
type Ingestor struct {
	social       services.SocialService
	shareBaseURL string
	logger       *log.Logger
}

// NewIngestor creates an Ingestor. shareBaseURL prefixes the relative share
// paths carried by notifications.
func NewIngestor(social services.SocialService, shareBaseURL string, logger *log.Logger) *Ingestor {
	return &Ingestor{
		social:       social,
		shareBaseURL: shareBaseURL,
		logger:       logger,
	}
}

// Poll returns one download request per unread notification.
//
// Each source notification is marked read before its request is handed
// downstream: a crash during the download leaves the notification consumed
// rather than retried. Notifications whose share URL has an unknown content
// type are logged and dropped (after marking, like the rest).
func (i *Ingestor) Poll(ctx context.Context) ([]models.DownloadRequest, error) {
	notifications, err := i.social.Notifications(ctx)
	if err != nil {
		return nil, err
	}

	var requests []models.DownloadRequest
	for _, n := range notifications {
		if n.Read {
			continue
		}

		if err := i.social.MarkNotificationRead(ctx, n.ID); err != nil {
			// Not marked means a later poll would see it again; skip the
			// download too so it is not performed twice.
			i.logger.Warn("failed to mark notification read, skipping", "id", n.ID, "err", err)
			continue
		}

		req, ok := i.request(n)
		if !ok {
			continue
		}

		i.logger.Info("new download request",
			"id", n.ID, "type", req.Type, "sender", n.SenderName, "url", n.URL)

		requests = append(requests, req)
	}

	return requests, nil
}

// Preview returns the download requests one poll pass would produce, without
// marking anything read. A real poll afterwards still sees every notification.
func (i *Ingestor) Preview(ctx context.Context) ([]models.DownloadRequest, error) {
	notifications, err := i.social.Notifications(ctx)
	if err != nil {
		return nil, err
	}

	var requests []models.DownloadRequest
	for _, n := range notifications {
		if n.Read {
			continue
		}
		if req, ok := i.request(n); ok {
			requests = append(requests, req)
		}
	}

	return requests, nil
}

// request maps a notification to its download request. Unknown share types
// are logged and reported as not-ok.
func (i *Ingestor) request(n models.Notification) (models.DownloadRequest, bool) {
	urlType := models.ParseURLType(n.URL)
	if urlType == models.TypeUnknown {
		i.logger.Warn("dropping notification with unknown share type", "id", n.ID, "url", n.URL)
		return models.DownloadRequest{}, false
	}

	return models.DownloadRequest{
		NotificationID: n.ID,
		ShareURL:       i.shareBaseURL + n.URL,
		Type:           urlType,
		SenderName:     n.SenderName,
	}, true
}
