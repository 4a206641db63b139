package tasks

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
	mocks "github.com/desertthunder/trackdrop/internal/testing"
)

func profileSocial(followers, following []string) *mocks.MockSocial {
	entries := func(ids []string) []models.ProfileEntry {
		out := make([]models.ProfileEntry, 0, len(ids))
		for _, id := range ids {
			out = append(out, models.ProfileEntry{UserID: id, Name: "user-" + id})
		}
		return out
	}

	return &mocks.MockSocial{
		ProfilePageFn: func(ctx context.Context, tab services.ProfileTab) ([]models.ProfileEntry, error) {
			if tab == services.TabFollowers {
				return entries(followers), nil
			}
			return entries(following), nil
		},
	}
}

func TestFriendLoop(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("Follows Back The Gap", func(t *testing.T) {
		social := profileSocial([]string{"A", "B", "C"}, []string{"B"})
		loop := NewFriendLoop(social, logger)

		if err := loop.Reconcile(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		followed := append([]string{}, social.Followed...)
		sort.Strings(followed)
		if len(followed) != 2 || followed[0] != "A" || followed[1] != "C" {
			t.Errorf("expected follows for exactly {A, C}, got %v", social.Followed)
		}
	})

	t.Run("Nobody Followed Twice", func(t *testing.T) {
		// Duplicate follower rows collapse via set semantics.
		social := profileSocial([]string{"A", "A", "C"}, []string{})
		loop := NewFriendLoop(social, logger)

		if err := loop.Reconcile(context.Background()); err != nil {
			t.Fatal(err)
		}

		seen := map[string]int{}
		for _, id := range social.Followed {
			seen[id]++
		}
		for id, count := range seen {
			if count != 1 {
				t.Errorf("user %s followed %d times", id, count)
			}
		}
	})

	t.Run("Empty Gap Is A No-Op", func(t *testing.T) {
		social := profileSocial([]string{"A"}, []string{"A"})
		loop := NewFriendLoop(social, logger)

		if err := loop.Reconcile(context.Background()); err != nil {
			t.Fatal(err)
		}
		if len(social.Followed) != 0 {
			t.Errorf("expected no follows, got %v", social.Followed)
		}
	})

	t.Run("Follow Failure Does Not Block The Pass", func(t *testing.T) {
		social := profileSocial([]string{"A", "B", "C"}, nil)
		social.FollowErrs = map[string]error{"B": errors.New("user blocked the bot")}
		loop := NewFriendLoop(social, logger)

		if err := loop.Reconcile(context.Background()); err != nil {
			t.Fatalf("per-user follow failure must not fail the pass, got %v", err)
		}

		followed := append([]string{}, social.Followed...)
		sort.Strings(followed)
		if len(followed) != 2 || followed[0] != "A" || followed[1] != "C" {
			t.Errorf("expected A and C still followed, got %v", social.Followed)
		}
	})

	t.Run("Listing Failure Propagates", func(t *testing.T) {
		social := &mocks.MockSocial{
			ProfilePageFn: func(ctx context.Context, tab services.ProfileTab) ([]models.ProfileEntry, error) {
				return nil, errors.New("gateway down")
			},
		}
		loop := NewFriendLoop(social, logger)

		if err := loop.Reconcile(context.Background()); err == nil {
			t.Error("expected listing error to surface")
		}
	})
}
