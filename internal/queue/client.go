package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/talentsift/screening/internal/config"
)

// Client enqueues pipeline tasks. The upload layer and the CLI use it; the
// worker never does.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) EnqueueCVProcess(ctx context.Context, cvDocumentID uuid.UUID) (*asynq.TaskInfo, error) {
	task, err := NewCVProcessTask(cvDocumentID)
	if err != nil {
		return nil, err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("enqueue cv process task: %w", err)
	}
	return info, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
