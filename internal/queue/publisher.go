package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the stream and returns the ID Redis assigned.
	Publish(ctx context.Context, stream string, event ActivityEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewPublisher creates a publisher that trims the stream to roughly maxLen entries.
// maxLen <= 0 disables trimming.
func NewPublisher(client *redis.Client, maxLen int64) *RedisPublisher {
	return &RedisPublisher{client: client, maxLen: maxLen}
}

// Publish adds an event to the stream using XADD with an auto-generated ID.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event ActivityEvent) (string, error) {
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	messageID, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	switch event.Type {
	case EventReplyCreated:
		log.Printf("[Publisher] Publish OK: stream=%s type=%s msgID=%s thread=%d parent=%d actor=%d recipient=%d duration=%v",
			stream, event.Type, messageID, event.ThreadID, event.ParentID, event.ActorID, event.RecipientID, time.Since(startTime))
	default:
		log.Printf("[Publisher] Publish OK: stream=%s type=%s msgID=%s path=%s duration=%v",
			stream, event.Type, messageID, event.Path, time.Since(startTime))
	}

	return messageID, nil
}

// PublishReplyCreated notifies workers that recipientID got a reply from actorID.
func (p *RedisPublisher) PublishReplyCreated(ctx context.Context, threadID, parentID, actorID, recipientID int64) error {
	_, err := p.Publish(ctx, StreamActivity, NewReplyCreatedEvent(threadID, parentID, actorID, recipientID))
	return err
}

// RevalidatePath asks workers to invalidate anything cached for path.
func (p *RedisPublisher) RevalidatePath(ctx context.Context, path string) error {
	_, err := p.Publish(ctx, StreamActivity, NewPathRevalidatedEvent(path))
	return err
}
