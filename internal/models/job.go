package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job is a posting created by the CRUD layer; the pipeline only reads it.
type Job struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Department   *string         `json:"department,omitempty" db:"department"`
	Description  string          `json:"description" db:"description"`
	Requirements json.RawMessage `json:"requirements" db:"requirements"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Application links a CV document to the job it was submitted for.
type Application struct {
	ID           uuid.UUID `json:"id" db:"id"`
	JobID        uuid.UUID `json:"job_id" db:"job_id"`
	CVDocumentID uuid.UUID `json:"cv_document_id" db:"cv_document_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
