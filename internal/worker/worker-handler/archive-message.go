package worker_handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/internal/entity"
	"github.com/daniel-training/chat-backend/internal/queue"
)

// HandleArchiveMessage writes one routed message into the mongo archive.
func (wh *WorkerHandler) HandleArchiveMessage(ctx context.Context, raw json.RawMessage) error {
	var payload queue.ArchiveMessagePayload

	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid archive payload: %w", err)
	}

	doc := &entity.ArchivedMessage{
		UUID:      payload.UUID,
		RoomTitle: payload.Room,
		Sender:    payload.Sender,
		Content:   payload.Content,
		CreatedAt: payload.CreatedAt,
	}

	if _, err := wh.MessageRepo.InsertMessage(ctx, doc); err != nil {
		return fmt.Errorf("archive insert failed: %s", err.Message)
	}

	wh.bumpRoomActivity(ctx, payload)

	log.Debug().Str("room", payload.Room).Str("uuid", payload.UUID).Msg("message archived")
	return nil
}

// bumpRoomActivity advances the stored room's LastActivityAt so durable
// rooms reseed with fresh timestamps after a restart. Ephemeral rooms
// have no row; that lookup failing is not a job failure.
func (wh *WorkerHandler) bumpRoomActivity(ctx context.Context, payload queue.ArchiveMessagePayload) {
	room, err := wh.RoomRepo.FindByTitle(ctx, payload.Room)
	if err != nil {
		return
	}
	if payload.CreatedAt.After(room.LastActivityAt) {
		room.LastActivityAt = payload.CreatedAt
		if err := wh.RoomRepo.SaveRoom(ctx, room); err != nil {
			log.Warn().Str("room", payload.Room).Msg("failed to bump room activity")
		}
	}
}
