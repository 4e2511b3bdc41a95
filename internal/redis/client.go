package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis connection used by the activity cache and the event stream.
type Client struct {
	*redis.Client
}

// NewClient parses a redis:// URL such as redis://:password@localhost:6379/0.
func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &Client{Client: redis.NewClient(opts)}, nil
}

// Ping fails fast at startup when Redis is unreachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	startTime := time.Now()
	if err := c.Client.Ping(ctx).Err(); err != nil {
		log.Printf("[Redis] Ping FAILED: addr=%s err=%v", c.Options().Addr, err)
		return fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[Redis] Ping OK: addr=%s db=%d duration=%v", c.Options().Addr, c.Options().DB, time.Since(startTime))
	return nil
}
