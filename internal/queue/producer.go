package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	PriorityQueueKey = "priority_queue"
	DLQKey           = "priority_queue_dlq"
)

type Producer interface {
	Enqueue(ctx context.Context, job Job) error
}

type RedisProducer struct {
	Redis *redis.Client
}

func NewProducer(redis *redis.Client) Producer {
	return &RedisProducer{Redis: redis}
}

func (p *RedisProducer) Enqueue(ctx context.Context, job Job) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return err
	}

	// score = unix time the job becomes ready; workers only pop
	// members whose score is in the past, so retries can be delayed
	// by re-adding with a future score.
	score := float64(job.CreatedAt)
	return p.Redis.ZAdd(ctx, PriorityQueueKey, redis.Z{
		Score:  score,
		Member: jobBytes,
	}).Err()
}
