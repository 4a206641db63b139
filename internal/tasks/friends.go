package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/services"
)

// FriendLoop reconciles the bot account's social graph: every follower not
// already followed gets followed back. The relationship is monotonic; nothing
// is ever unfollowed.
type FriendLoop struct {
	social services.SocialService
	logger *log.Logger
}

// NewFriendLoop creates a FriendLoop over the given social service.
func NewFriendLoop(social services.SocialService, logger *log.Logger) *FriendLoop {
	return &FriendLoop{social: social, logger: logger}
}

// Gap returns the followers the bot does not follow back. Both listings are
// fetched fresh on every call; nothing is cached across passes.
func (f *FriendLoop) Gap(ctx context.Context) ([]models.ProfileEntry, error) {
	followers, err := f.social.ProfilePage(ctx, services.TabFollowers)
	if err != nil {
		return nil, err
	}

	following, err := f.social.ProfilePage(ctx, services.TabFollowing)
	if err != nil {
		return nil, err
	}

	followed := make(map[string]struct{}, len(following))
	for _, entry := range following {
		followed[entry.UserID] = struct{}{}
	}

	var gap []models.ProfileEntry
	seen := make(map[string]struct{})
	for _, follower := range followers {
		if _, ok := followed[follower.UserID]; ok {
			continue
		}
		if _, ok := seen[follower.UserID]; ok {
			continue
		}
		seen[follower.UserID] = struct{}{}
		gap = append(gap, follower)
	}

	return gap, nil
}

// Reconcile follows back everyone in the gap, sequentially. A failed follow
// is logged and does not block the rest of the pass.
func (f *FriendLoop) Reconcile(ctx context.Context) error {
	gap, err := f.Gap(ctx)
	if err != nil {
		return err
	}

	for _, follower := range gap {
		f.logger.Info("following back", "user", follower.UserID, "name", follower.Name)
		if err := f.social.FollowUser(ctx, follower.UserID); err != nil {
			f.logger.Warn("follow failed", "user", follower.UserID, "err", err)
		}
	}

	return nil
}
