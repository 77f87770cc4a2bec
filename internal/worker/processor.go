package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
	"github.com/fairwaygolf/tour-messaging-backend/internal/service"
)

// JobProcessor drains bulk send jobs from the queue through the same
// dispatch path the synchronous API uses
type JobProcessor struct {
	dispatchService service.DispatchService
	logger          *slog.Logger
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(dispatchService service.DispatchService, logger *slog.Logger) *JobProcessor {
	return &JobProcessor{
		dispatchService: dispatchService,
		logger:          logger,
	}
}

// Process handles a single bulk send job. Per-recipient failures are
// already absorbed by the dispatcher; an error here means the whole job
// could not run.
func (p *JobProcessor) Process(ctx context.Context, job *models.BulkSendJob) error {
	p.logger.Info("processing bulk send job",
		slog.String("job_id", job.JobID),
		slog.String("type", job.Kind),
		slog.Int("recipients", len(job.Recipients)),
	)

	req := &service.SendMessageRequest{
		Kind:       job.Kind,
		Recipients: job.Recipients,
		Title:      job.Title,
		Content:    job.Content,
		TemplateID: job.TemplateID,
		Variables:  job.Variables,
	}

	result, err := p.dispatchService.Send(ctx, req)
	if err != nil {
		p.logger.Error("bulk send job failed",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to process job %s: %w", job.JobID, err)
	}

	p.logger.Info("bulk send job finished",
		slog.String("job_id", job.JobID),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
		slog.Int("cost", result.Cost),
	)

	return nil
}
