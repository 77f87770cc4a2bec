package queue

import (
	"context"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
)

// JobHandler processes a single bulk send job
type JobHandler func(ctx context.Context, job *models.BulkSendJob) error

// Client defines the queue interface for bulk send jobs
type Client interface {
	Publish(ctx context.Context, job *models.BulkSendJob) error
	Consume(ctx context.Context, handler JobHandler, concurrency int) error
	Health(ctx context.Context) error
	Close() error
}
