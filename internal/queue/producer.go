package queue

import (
	"context"

	"github.com/redis/go-redis/v9"

	"webappmanager/internal/tasks"
)

type Producer struct {
	client *redis.Client
	stream string
}

func NewProducer(client *redis.Client, stream string) *Producer {
	return &Producer{client: client, stream: stream}
}

// Enqueue appends the task to the stream. A nil producer drops the task.
func (p *Producer) Enqueue(ctx context.Context, task tasks.Task) error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: task.Values(),
	}).Err()
}
