package tasks

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/shared"
	mocks "github.com/desertthunder/trackdrop/internal/testing"
)

func TestIngestor(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	feed := []models.Notification{
		{ID: "1", URL: "/playlist/123", Read: false, SenderName: "alice"},
		{ID: "2", URL: "/track/55", Read: true, SenderName: "bob"},
		{ID: "3", URL: "/foo/1", Read: false, SenderName: "carol"},
		{ID: "4", URL: "/album/9", Read: false, SenderName: "dave"},
	}

	t.Run("Poll", func(t *testing.T) {
		social := &mocks.MockSocial{
			NotificationsFn: func(ctx context.Context) ([]models.Notification, error) {
				return feed, nil
			},
		}
		ingestor := NewIngestor(social, "https://deezer.com/us", logger)

		requests, err := ingestor.Poll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		t.Run("Read Notifications Excluded", func(t *testing.T) {
			for _, req := range requests {
				if req.NotificationID == "2" {
					t.Error("read notification should not produce a request")
				}
			}
		})

		t.Run("Unknown Type Dropped But Marked", func(t *testing.T) {
			for _, req := range requests {
				if req.NotificationID == "3" {
					t.Error("unknown url type should be dropped")
				}
			}

			marked := map[string]bool{}
			for _, id := range social.MarkedRead {
				marked[id] = true
			}
			if !marked["3"] {
				t.Error("dropped notification should still be marked read")
			}
		})

		t.Run("Requests Built From Unread", func(t *testing.T) {
			if len(requests) != 2 {
				t.Fatalf("expected 2 requests, got %d", len(requests))
			}

			first := requests[0]
			if first.NotificationID != "1" || first.Type != models.TypePlaylist || first.SenderName != "alice" {
				t.Errorf("unexpected request: %+v", first)
			}
			if first.ShareURL != "https://deezer.com/us/playlist/123" {
				t.Errorf("expected absolute share url, got %s", first.ShareURL)
			}

			if requests[1].Type != models.TypeAlbum {
				t.Errorf("expected album request, got %+v", requests[1])
			}
		})

		t.Run("Marked Read Exactly Once Each", func(t *testing.T) {
			if len(social.MarkedRead) != 3 {
				t.Fatalf("expected 3 mark-read calls (unread only), got %d", len(social.MarkedRead))
			}
			seen := map[string]int{}
			for _, id := range social.MarkedRead {
				seen[id]++
			}
			for id, count := range seen {
				if count != 1 {
					t.Errorf("notification %s marked read %d times", id, count)
				}
			}
		})
	})

	t.Run("Preview", func(t *testing.T) {
		social := &mocks.MockSocial{
			NotificationsFn: func(ctx context.Context) ([]models.Notification, error) {
				return feed, nil
			},
		}
		ingestor := NewIngestor(social, "https://deezer.com/us", logger)

		requests, err := ingestor.Preview(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		t.Run("Marks Nothing Read", func(t *testing.T) {
			if len(social.MarkedRead) != 0 {
				t.Errorf("preview must not mark notifications read, got %v", social.MarkedRead)
			}
		})

		t.Run("Same Requests As A Poll", func(t *testing.T) {
			polled, err := ingestor.Poll(context.Background())
			if err != nil {
				t.Fatal(err)
			}

			if len(requests) != len(polled) {
				t.Fatalf("preview produced %d requests, poll %d", len(requests), len(polled))
			}
			for i := range requests {
				if requests[i] != polled[i] {
					t.Errorf("request %d differs: %+v vs %+v", i, requests[i], polled[i])
				}
			}
		})
	})

	t.Run("Mark Read Failure Skips Download", func(t *testing.T) {
		social := &mocks.MockSocial{
			NotificationsFn: func(ctx context.Context) ([]models.Notification, error) {
				return []models.Notification{{ID: "1", URL: "/track/55", Read: false}}, nil
			},
			MarkReadErr: errors.New("gateway down"),
		}
		ingestor := NewIngestor(social, "https://deezer.com/us", logger)

		requests, err := ingestor.Poll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(requests) != 0 {
			t.Errorf("unmarked notification must not be processed, got %d requests", len(requests))
		}
	})

	t.Run("List Failure Propagates", func(t *testing.T) {
		social := &mocks.MockSocial{
			NotificationsFn: func(ctx context.Context) ([]models.Notification, error) {
				return nil, errors.New("gateway down")
			},
		}
		ingestor := NewIngestor(social, "https://deezer.com/us", logger)

		if _, err := ingestor.Poll(context.Background()); err == nil {
			t.Error("expected poll error")
		}
	})
}
