package models

import (
	"time"

	"github.com/google/uuid"
)

// CVDocument is one uploaded resume. The upload layer creates it in status
// UPLOADED; the pipeline owns every transition after that.
type CVDocument struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	StorageKey    string     `json:"storage_key" db:"storage_key"`
	ExtractedText *string    `json:"extracted_text,omitempty" db:"extracted_text"`
	Status        string     `json:"status" db:"status"`
	ErrorMessage  *string    `json:"error_message,omitempty" db:"error_message"`
	FailReason    *string    `json:"fail_reason,omitempty" db:"fail_reason"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Lifecycle statuses. Transitions are monotonic; AI_DONE is the only success
// terminal state.
const (
	CVStatusUploaded      = "UPLOADED"
	CVStatusTextExtracted = "TEXT_EXTRACTED"
	CVStatusAIDone        = "AI_DONE"
	CVStatusFailed        = "FAILED"
)

// FailReason classifies a terminal pipeline failure.
type FailReason string

const (
	FailStorageFetch    FailReason = "S3_UPLOAD_FAILED"
	FailPDFTextEmpty    FailReason = "PDF_TEXT_EMPTY"
	FailPDFParse        FailReason = "PDF_PARSE_FAILED"
	FailAIQuotaExceeded FailReason = "AI_QUOTA_EXCEEDED"
	FailAIRateLimited   FailReason = "AI_RATE_LIMITED"
	FailAIAuth          FailReason = "AI_AUTH_FAILED"
	FailAITimeout       FailReason = "AI_TIMEOUT"
	FailAI              FailReason = "AI_FAILED"
	FailDB              FailReason = "DB_FAILED"
	FailUnknown         FailReason = "UNKNOWN"
)
