// Package queue holds the thumbnail job definitions and the Redis-backed
// producer used by the upload path. The consumer side lives in
// internal/service.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

// TypeThumbnail is the task type processed by the thumbnail worker.
const TypeThumbnail = "thumbnail:generate"

type ThumbnailPayload struct {
	UserID string `json:"user_id"`
	FileID string `json:"file_id"`
}

// Enqueuer is the producer capability injected into the upload handler.
type Enqueuer interface {
	EnqueueThumbnail(ctx context.Context, userID, fileID string) error
}

func NewThumbnailTask(userID, fileID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ThumbnailPayload{UserID: userID, FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal thumbnail payload, %w", err)
	}

	return asynq.NewTask(TypeThumbnail, payload), nil
}

type AsynqEnqueuer struct {
	c *asynq.Client
}

func NewAsynqEnqueuer() *AsynqEnqueuer {
	return &AsynqEnqueuer{
		c: asynq.NewClient(RedisOpt()),
	}
}

// RedisOpt returns the connection options shared by the producer client
// and the worker server.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: viper.GetString("redis.addr")}
}

func (e *AsynqEnqueuer) EnqueueThumbnail(ctx context.Context, userID, fileID string) error {
	task, err := NewThumbnailTask(userID, fileID)
	if err != nil {
		return err
	}

	if _, err := e.c.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue thumbnail job, %w", err)
	}

	return nil
}

func (e *AsynqEnqueuer) Close() error {
	return e.c.Close()
}
