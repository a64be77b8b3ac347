package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/internal/chat"
)

const (
	archiveMaxRetry = 5
	archiveTTL      = 24 * time.Hour
)

// MessageArchiver turns routed messages into archive jobs. It satisfies
// the router's Archiver contract: enqueue failures are logged and
// dropped, delivery to subscribers already happened.
type MessageArchiver struct {
	producer Producer
}

func NewMessageArchiver(producer Producer) *MessageArchiver {
	return &MessageArchiver{producer: producer}
}

func (a *MessageArchiver) Archive(msg *chat.Message) {
	job := NewJob(JobArchiveMessage, ArchiveMessagePayload{
		UUID:      msg.ID,
		Room:      msg.Room,
		Sender:    msg.Sender,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}, 1, archiveMaxRetry, archiveTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := a.producer.Enqueue(ctx, job); err != nil {
		log.Error().Err(err).Str("room", msg.Room).Msg("failed to enqueue archive job")
	}
}
