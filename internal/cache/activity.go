package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// UnreadKeyPrefix holds per-user counters of replies not yet seen on the activity page.
	UnreadKeyPrefix = "activity:unread:"

	// UnreadTTL drops counters of users who stop coming back.
	UnreadTTL = 30 * 24 * time.Hour

	// PathVersionPrefix holds a monotonically increasing version per revalidated path.
	PathVersionPrefix = "revalidate:path:"
)

// ActivityCache keeps the small pieces of activity state that live outside Postgres.
type ActivityCache interface {
	// IncrUnread bumps the user's unread counter and refreshes its TTL.
	IncrUnread(ctx context.Context, userID int64) (int64, error)

	// Unread returns the user's unread counter, 0 when absent.
	Unread(ctx context.Context, userID int64) (int64, error)

	// ResetUnread clears the counter once the user has seen their activity.
	ResetUnread(ctx context.Context, userID int64) error

	// BumpPathVersion invalidates anything cached for path.
	BumpPathVersion(ctx context.Context, path string) (int64, error)

	// PathVersion returns the current version of path, 0 when never revalidated.
	PathVersion(ctx context.Context, path string) (int64, error)
}

// RedisActivityCache implements ActivityCache with plain Redis counters.
type RedisActivityCache struct {
	client *redis.Client
}

// NewActivityCache creates a new ActivityCache backed by Redis.
func NewActivityCache(client *redis.Client) ActivityCache {
	return &RedisActivityCache{client: client}
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("%s%d", UnreadKeyPrefix, userID)
}

func pathKey(path string) string {
	return PathVersionPrefix + path
}

// IncrUnread uses a pipeline: INCR + EXPIRE.
func (c *RedisActivityCache) IncrUnread(ctx context.Context, userID int64) (int64, error) {
	key := unreadKey(userID)
	startTime := time.Now()

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, UnreadTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[ActivityCache] IncrUnread FAILED: user=%d err=%v", userID, err)
		return 0, fmt.Errorf("incr unread: %w", err)
	}

	log.Printf("[ActivityCache] IncrUnread OK: user=%d unread=%d duration=%v",
		userID, incr.Val(), time.Since(startTime))
	return incr.Val(), nil
}

func (c *RedisActivityCache) Unread(ctx context.Context, userID int64) (int64, error) {
	val, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		log.Printf("[ActivityCache] Unread FAILED: user=%d err=%v", userID, err)
		return 0, fmt.Errorf("get unread: %w", err)
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse unread counter: %w", err)
	}
	return n, nil
}

func (c *RedisActivityCache) ResetUnread(ctx context.Context, userID int64) error {
	removed, err := c.client.Del(ctx, unreadKey(userID)).Result()
	if err != nil {
		log.Printf("[ActivityCache] ResetUnread FAILED: user=%d err=%v", userID, err)
		return fmt.Errorf("reset unread: %w", err)
	}

	log.Printf("[ActivityCache] ResetUnread OK: user=%d removed=%d", userID, removed)
	return nil
}

func (c *RedisActivityCache) BumpPathVersion(ctx context.Context, path string) (int64, error) {
	version, err := c.client.Incr(ctx, pathKey(path)).Result()
	if err != nil {
		log.Printf("[ActivityCache] BumpPathVersion FAILED: path=%s err=%v", path, err)
		return 0, fmt.Errorf("bump path version: %w", err)
	}

	log.Printf("[ActivityCache] BumpPathVersion OK: path=%s version=%d", path, version)
	return version, nil
}

func (c *RedisActivityCache) PathVersion(ctx context.Context, path string) (int64, error) {
	version, err := c.client.Get(ctx, pathKey(path)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		log.Printf("[ActivityCache] PathVersion FAILED: path=%s err=%v", path, err)
		return 0, fmt.Errorf("get path version: %w", err)
	}
	return version, nil
}
