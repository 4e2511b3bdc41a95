package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the activity stream
const (
	EventReplyCreated    = "reply_created"
	EventPathRevalidated = "path_revalidated"
)

const (
	StreamActivity        = "stream:activity"
	ConsumerGroupActivity = "activity_workers"
)

// ActivityEvent is the payload of every message on the activity stream.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	// Reply events. RecipientID is the parent thread's author.
	ThreadID    int64 `json:"thread_id,omitempty"`
	ParentID    int64 `json:"parent_id,omitempty"`
	ActorID     int64 `json:"actor_id,omitempty"`
	RecipientID int64 `json:"recipient_id,omitempty"`

	// Revalidation events
	Path string `json:"path,omitempty"`
}

// NewReplyCreatedEvent is published after a reply is committed.
func NewReplyCreatedEvent(threadID, parentID, actorID, recipientID int64) ActivityEvent {
	return ActivityEvent{
		Type:        EventReplyCreated,
		Timestamp:   time.Now().Unix(),
		ThreadID:    threadID,
		ParentID:    parentID,
		ActorID:     actorID,
		RecipientID: recipientID,
	}
}

func NewPathRevalidatedEvent(path string) ActivityEvent {
	return ActivityEvent{
		Type:      EventPathRevalidated,
		Timestamp: time.Now().Unix(),
		Path:      path,
	}
}

// ToMap serializes the event into the "type" and "data" fields of a stream entry.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.Type == "" {
		return ActivityEvent{}, fmt.Errorf("event without type")
	}
	return event, nil
}
