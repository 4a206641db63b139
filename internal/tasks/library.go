package tasks

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/services"
)

// LibraryIndex lazily maps case-folded absolute file paths to media server
// item ids, one mapping per user.
//
// An index lives for a single processing attempt: a user's mapping is built
// on first resolve and reused until the index is discarded, so the remote
// library changing underneath is bounded to that one attempt.
type LibraryIndex struct {
	media  services.MediaService
	logger *log.Logger

	mu     sync.Mutex
	byUser map[string]map[string]string
}

// NewLibraryIndex creates an empty index over the given media service.
func NewLibraryIndex(media services.MediaService, logger *log.Logger) *LibraryIndex {
	return &LibraryIndex{
		media:  media,
		logger: logger,
		byUser: make(map[string]map[string]string),
	}
}

// Resolve looks up the item id for an absolute path as visible to userID.
// Matching is case-insensitive exact path equality; a miss is expected (the
// library may not have indexed a fresh file yet) and is not an error. The
// error return covers only failures building the user's mapping.
func (x *LibraryIndex) Resolve(ctx context.Context, userID, absPath string) (string, bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	mapping, ok := x.byUser[userID]
	if !ok {
		built, err := x.build(ctx, userID)
		if err != nil {
			return "", false, err
		}
		x.byUser[userID] = built
		mapping = built
	}

	id, found := mapping[strings.ToLower(absPath)]
	return id, found, nil
}

func (x *LibraryIndex) build(ctx context.Context, userID string) (map[string]string, error) {
	folders, err := x.media.MusicFolders(ctx)
	if err != nil {
		return nil, err
	}

	if len(folders) == 0 {
		x.logger.Warn("no music libraries found on media server")
	}

	mapping := make(map[string]string)
	total := 0
	for _, folderID := range folders {
		items, err := x.media.AudioItems(ctx, userID, folderID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			mapping[strings.ToLower(item.Path)] = item.ID
		}
		total += len(items)
	}

	x.logger.Info("built library index", "user", userID, "items", total)
	return mapping, nil
}
