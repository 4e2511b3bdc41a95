package worker

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"threadline/internal/cache"
	"threadline/internal/metrics"
	"threadline/internal/model"
	"threadline/internal/queue"
)

// UserProvider resolves the actor of an event so notifications can name them.
type UserProvider interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// PushSender delivers a push notification to every device of a user.
type PushSender interface {
	SendToUser(ctx context.Context, userID int64, title, body string, data map[string]string) error
}

// Handler processes activity events from the queue.
type Handler struct {
	activityCache cache.ActivityCache
	users         UserProvider
	push          PushSender // nil when FCM is not configured
}

func NewHandler(activityCache cache.ActivityCache, users UserProvider) *Handler {
	return &Handler{
		activityCache: activityCache,
		users:         users,
	}
}

// SetPushSender enables push delivery for reply events.
func (h *Handler) SetPushSender(p PushSender) {
	h.push = p
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ActivityEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventReplyCreated:
		err = h.handleReplyCreated(ctx, event)
	case queue.EventPathRevalidated:
		err = h.handlePathRevalidated(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		metrics.WorkerEventsTotal.WithLabelValues("unknown", "error").Inc()
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		metrics.WorkerEventsTotal.WithLabelValues(event.Type, "error").Inc()
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	metrics.WorkerEventsTotal.WithLabelValues(event.Type, "ok").Inc()
	return nil
}

// handleReplyCreated bumps the thread author's unread counter and pushes to their devices.
func (h *Handler) handleReplyCreated(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] ReplyCreated: thread=%d parent=%d actor=%d recipient=%d",
		event.ThreadID, event.ParentID, event.ActorID, event.RecipientID)

	// Replies to your own thread never show up as activity
	if event.ActorID == event.RecipientID {
		return nil
	}

	if _, err := h.activityCache.IncrUnread(ctx, event.RecipientID); err != nil {
		return fmt.Errorf("incr unread: %w", err)
	}

	if h.push == nil {
		return nil
	}

	actorName := "Someone"
	if actor, err := h.users.GetByID(ctx, event.ActorID); err != nil {
		log.Printf("[Worker] ReplyCreated: actor lookup failed actor=%d err=%v", event.ActorID, err)
	} else if actor.Name != "" {
		actorName = actor.Name
	}

	data := map[string]string{
		"type":      queue.EventReplyCreated,
		"thread_id": strconv.FormatInt(event.ThreadID, 10),
		"parent_id": strconv.FormatInt(event.ParentID, 10),
		"link":      model.ThreadPath(event.ParentID),
	}
	body := fmt.Sprintf("%s replied to your thread", actorName)

	// Push failures never fail the event: the unread counter already moved.
	if err := h.push.SendToUser(ctx, event.RecipientID, "New reply", body, data); err != nil {
		log.Printf("[Worker] ReplyCreated: push failed recipient=%d err=%v", event.RecipientID, err)
	}

	return nil
}

func (h *Handler) handlePathRevalidated(ctx context.Context, event queue.ActivityEvent) error {
	if event.Path == "" {
		return fmt.Errorf("path_revalidated without path")
	}

	version, err := h.activityCache.BumpPathVersion(ctx, event.Path)
	if err != nil {
		return fmt.Errorf("bump path version: %w", err)
	}

	log.Printf("[Worker] PathRevalidated DONE: path=%s version=%d", event.Path, version)
	return nil
}
