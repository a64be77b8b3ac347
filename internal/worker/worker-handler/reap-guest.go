package worker_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/internal/queue"
)

// HandleReapGuest deletes the account row of a guest whose last
// connection closed. A row that is already gone counts as success.
func (wh *WorkerHandler) HandleReapGuest(ctx context.Context, raw json.RawMessage) error {
	var payload queue.ReapGuestPayload

	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid reap payload: %w", err)
	}

	if err := wh.UserRepo.DeleteByID(ctx, payload.UserID); err != nil {
		if err.Code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("guest delete failed: %s", err.Message)
	}

	log.Debug().Str("nickname", payload.Nickname).Int64("userID", payload.UserID).Msg("guest account reaped")
	return nil
}
