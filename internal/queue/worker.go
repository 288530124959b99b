package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Processor runs the screening pipeline for one CV document.
type Processor interface {
	Process(ctx context.Context, cvDocumentID uuid.UUID) error
}

// CVWorker adapts the pipeline to asynq's handler contract.
type CVWorker struct {
	pipeline Processor
}

func NewCVWorker(pipeline Processor) *CVWorker {
	return &CVWorker{pipeline: pipeline}
}

func (w *CVWorker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload CVProcessPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal cv process payload: %v: %w", err, asynq.SkipRetry)
	}

	id, err := uuid.Parse(payload.CVDocumentID)
	if err != nil {
		return fmt.Errorf("invalid cv document id %q: %v: %w", payload.CVDocumentID, err, asynq.SkipRetry)
	}

	start := time.Now()
	slog.Info("processing cv document", "cv_document_id", id)

	if err := w.pipeline.Process(ctx, id); err != nil {
		return fmt.Errorf("process cv document %s: %w", id, err)
	}

	slog.Info("cv document processed", "cv_document_id", id, "duration", time.Since(start))
	return nil
}
