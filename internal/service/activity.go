package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"threadline/internal/cache"
	"threadline/internal/model"
	"threadline/internal/repository"
)

// ActivityService builds the "replies to my threads" feed.
type ActivityService struct {
	threadRepo    repository.ThreadRepository
	activityCache cache.ActivityCache // nil disables unread counters
}

func NewActivityService(threadRepo repository.ThreadRepository, activityCache cache.ActivityCache) *ActivityService {
	return &ActivityService{
		threadRepo:    threadRepo,
		activityCache: activityCache,
	}
}

// GetActivity returns the replies other users wrote to any thread userID authored.
//
// Items follow the order of the concatenated children lists of the user's threads
// (threads oldest first, children in append order). A reply listed twice appears twice.
// The two queries are not run in one transaction.
func (s *ActivityService) GetActivity(ctx context.Context, userID int64) ([]model.ActivityItem, error) {
	startTime := time.Now()

	own, err := s.threadRepo.GetByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity: %w", err)
	}

	var childIDs []int64
	for _, t := range own {
		childIDs = append(childIDs, t.ChildIDs...)
	}

	items := []model.ActivityItem{}
	if len(childIDs) == 0 {
		log.Printf("[ActivityService] GetActivity OK: user=%d threads=%d items=0 duration=%v",
			userID, len(own), time.Since(startTime))
		return items, nil
	}

	replies, err := s.threadRepo.GetByIDsWithAuthor(ctx, childIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity: %w", err)
	}

	byID := make(map[int64]model.Thread, len(replies))
	for _, r := range replies {
		byID[r.ID] = r
	}

	for _, id := range childIDs {
		reply, ok := byID[id]
		if !ok {
			continue // self-authored
		}
		items = append(items, model.NewActivityItem(reply))
	}

	log.Printf("[ActivityService] GetActivity OK: user=%d threads=%d children=%d items=%d duration=%v",
		userID, len(own), len(childIDs), len(items), time.Since(startTime))
	return items, nil
}

// UnreadCount is the number of replies received since the user last opened activity.
func (s *ActivityService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if s.activityCache == nil {
		return 0, nil
	}
	return s.activityCache.Unread(ctx, userID)
}

// MarkSeen resets the unread counter.
func (s *ActivityService) MarkSeen(ctx context.Context, userID int64) error {
	if s.activityCache == nil {
		return nil
	}
	return s.activityCache.ResetUnread(ctx, userID)
}

// PathVersion exposes the revalidation version of path, used as an ETag.
func (s *ActivityService) PathVersion(ctx context.Context, path string) (int64, error) {
	if s.activityCache == nil {
		return 0, nil
	}
	return s.activityCache.PathVersion(ctx, path)
}
