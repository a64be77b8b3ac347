package worker

import (
	"context"
	"fmt"

	"github.com/daniel-training/chat-backend/internal/queue"
	worker_handler "github.com/daniel-training/chat-backend/internal/worker/worker-handler"
)

func HandleJob(ctx context.Context, job queue.Job, handler *worker_handler.WorkerHandler) error {
	switch job.Type {
	case queue.JobArchiveMessage:
		return handler.HandleArchiveMessage(ctx, job.Payload)
	case queue.JobReapGuest:
		return handler.HandleReapGuest(ctx, job.Payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}
