package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-training/chat-backend/internal/chat"
)

func newTestProducer(t *testing.T) (*miniredis.Miniredis, Producer) {
	t.Helper()
	mock := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mock.Addr()})
	t.Cleanup(func() { client.Close() })
	return mock, NewProducer(client)
}

func TestProducer_EnqueueScoresByReadyTime(t *testing.T) {
	mock, producer := newTestProducer(t)

	job := NewJob(JobReapGuest, ReapGuestPayload{UserID: 7, Nickname: "guest-abc"}, 1, 3, time.Hour)
	require.NoError(t, producer.Enqueue(context.Background(), job))

	members, err := mock.ZMembers(PriorityQueueKey)
	require.NoError(t, err)
	require.Len(t, members, 1)

	var stored Job
	require.NoError(t, json.Unmarshal([]byte(members[0]), &stored))
	assert.Equal(t, job.ID, stored.ID)
	assert.Equal(t, JobReapGuest, stored.Type)

	score, err := mock.ZScore(PriorityQueueKey, members[0])
	require.NoError(t, err)
	assert.Equal(t, float64(job.CreatedAt), score, "jobs are scored by the time they become ready")
}

func TestMessageArchiver_EnqueuesArchiveJob(t *testing.T) {
	mock, producer := newTestProducer(t)
	archiver := NewMessageArchiver(producer)

	archiver.Archive(&chat.Message{
		ID:        "msg-1",
		Sender:    "neo",
		Room:      "matrix",
		Content:   "hello",
		CreatedAt: time.Now().UTC(),
	})

	members, err := mock.ZMembers(PriorityQueueKey)
	require.NoError(t, err)
	require.Len(t, members, 1)

	var stored Job
	require.NoError(t, json.Unmarshal([]byte(members[0]), &stored))
	assert.Equal(t, JobArchiveMessage, stored.Type)

	var payload ArchiveMessagePayload
	require.NoError(t, json.Unmarshal(stored.Payload, &payload))
	assert.Equal(t, "msg-1", payload.UUID)
	assert.Equal(t, "matrix", payload.Room)
	assert.Equal(t, "neo", payload.Sender)
	assert.Equal(t, "hello", payload.Content)
}
