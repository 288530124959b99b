// Package queue defines the asynq task types and the worker-side handlers
// that drive CV processing.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeCVProcess is the task type for running the screening pipeline on one
// CV document.
const TypeCVProcess = "cv:process"

const (
	cvProcessMaxRetry = 3
	cvProcessTimeout  = 10 * time.Minute
)

type CVProcessPayload struct {
	CVDocumentID string `json:"cv_document_id"`
}

func NewCVProcessTask(cvDocumentID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(CVProcessPayload{CVDocumentID: cvDocumentID.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal cv process payload: %w", err)
	}
	return asynq.NewTask(TypeCVProcess, payload,
		asynq.MaxRetry(cvProcessMaxRetry),
		asynq.Timeout(cvProcessTimeout),
	), nil
}
