package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestParseActivityEvent(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]interface{}
		want    ActivityEvent
		wantErr bool
	}{
		{
			name:   "Reply created",
			values: map[string]interface{}{"type": EventReplyCreated, "data": `{"type":"reply_created","thread_id":11,"parent_id":10,"actor_id":2,"recipient_id":1}`},
			want:   ActivityEvent{Type: EventReplyCreated, ThreadID: 11, ParentID: 10, ActorID: 2, RecipientID: 1},
		},
		{
			name:   "Path revalidated",
			values: map[string]interface{}{"data": `{"type":"path_revalidated","path":"/profile/edit"}`},
			want:   ActivityEvent{Type: EventPathRevalidated, Path: "/profile/edit"},
		},
		{name: "Missing data", values: map[string]interface{}{"type": EventReplyCreated}, wantErr: true},
		{name: "Bad JSON", values: map[string]interface{}{"data": "{"}, wantErr: true},
		{name: "No type", values: map[string]interface{}{"data": `{"path":"/x"}`}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActivityEvent(tt.values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublishAndConsume(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	consumer := NewConsumer(client)
	require.NoError(t, consumer.EnsureGroup(ctx, StreamActivity, ConsumerGroupActivity))
	// second call hits BUSYGROUP and still succeeds
	require.NoError(t, consumer.EnsureGroup(ctx, StreamActivity, ConsumerGroupActivity))

	publisher := NewPublisher(client, 1000)
	require.NoError(t, publisher.PublishReplyCreated(ctx, 11, 10, 2, 1))
	require.NoError(t, publisher.RevalidatePath(ctx, "/profile/edit"))

	messages, err := consumer.Read(ctx, StreamActivity, ConsumerGroupActivity, "c1", 10, 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, EventReplyCreated, messages[0].Event.Type)
	assert.Equal(t, int64(1), messages[0].Event.RecipientID)
	assert.Equal(t, EventPathRevalidated, messages[1].Event.Type)
	assert.Equal(t, "/profile/edit", messages[1].Event.Path)

	pending, err := consumer.Pending(ctx, StreamActivity, ConsumerGroupActivity)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	// unacked messages are redelivered through ReadPending
	redelivered, err := consumer.ReadPending(ctx, StreamActivity, ConsumerGroupActivity, "c1", 10)
	require.NoError(t, err)
	assert.Len(t, redelivered, 2)

	require.NoError(t, consumer.Ack(ctx, StreamActivity, ConsumerGroupActivity, messages[0].ID, messages[1].ID))

	pending, err = consumer.Pending(ctx, StreamActivity, ConsumerGroupActivity)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)
}

func TestConsumer_MalformedMessagesAreAcked(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	consumer := NewConsumer(client)
	require.NoError(t, consumer.EnsureGroup(ctx, StreamActivity, ConsumerGroupActivity))

	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamActivity,
		Values: map[string]interface{}{"type": "garbage"},
	}).Err())

	messages, err := consumer.Read(ctx, StreamActivity, ConsumerGroupActivity, "c1", 10, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, messages)

	pending, err := consumer.Pending(ctx, StreamActivity, ConsumerGroupActivity)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)
}

func TestConsumer_ReadTimeout(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	consumer := NewConsumer(client)
	require.NoError(t, consumer.EnsureGroup(ctx, StreamActivity, ConsumerGroupActivity))

	messages, err := consumer.Read(ctx, StreamActivity, ConsumerGroupActivity, "c1", 10, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
