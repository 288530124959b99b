package screening

import (
	"errors"
	"strings"

	"github.com/talentsift/screening/internal/extract"
	"github.com/talentsift/screening/internal/llm"
	"github.com/talentsift/screening/internal/models"
	"github.com/talentsift/screening/internal/storage"
	"github.com/talentsift/screening/internal/store"
)

// Sentinel pipeline errors.
var (
	// ErrEmptyText marks a PDF that parsed fine but yielded no usable text,
	// typically a scanned or image-based document.
	ErrEmptyText = errors.New("no extractable text in document")

	// ErrJobContextMissing marks a CV document with no application linking it
	// to a job.
	ErrJobContextMissing = errors.New("no job application found for cv document")
)

// ClassifyFailure maps a pipeline error to a terminal fail reason. Typed
// errors from the collaborator boundaries are checked first; substring
// matching on the message is only the catch-all for errors that arrive
// untyped.
func ClassifyFailure(err error) models.FailReason {
	if err == nil {
		return models.FailUnknown
	}

	if errors.Is(err, ErrEmptyText) {
		return models.FailPDFTextEmpty
	}

	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		switch llmErr.Kind {
		case llm.KindQuota:
			return models.FailAIQuotaExceeded
		case llm.KindRateLimited:
			return models.FailAIRateLimited
		case llm.KindAuth:
			return models.FailAIAuth
		case llm.KindTimeout:
			return models.FailAITimeout
		default:
			return models.FailAI
		}
	}

	var storageErr *storage.Error
	if errors.As(err, &storageErr) {
		return models.FailStorageFetch
	}

	var extractErr *extract.Error
	if errors.As(err, &extractErr) {
		return models.FailPDFParse
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return models.FailDB
	}

	if errors.Is(err, ErrJobContextMissing) {
		return models.FailUnknown
	}

	return classifyByMessage(err.Error())
}

func classifyByMessage(msg string) models.FailReason {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "quota"):
		return models.FailAIQuotaExceeded
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return models.FailAIRateLimited
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "api key"),
		strings.Contains(msg, "401"), strings.Contains(msg, "403"):
		return models.FailAIAuth
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return models.FailAITimeout
	case strings.Contains(msg, "gemini"), strings.Contains(msg, "openai"),
		strings.Contains(msg, "anthropic"), strings.Contains(msg, "model"):
		return models.FailAI
	case strings.Contains(msg, "database"), strings.Contains(msg, "pgx"),
		strings.Contains(msg, "sql"):
		return models.FailDB
	case strings.Contains(msg, "storage"), strings.Contains(msg, "bucket"),
		strings.Contains(msg, "download"):
		return models.FailStorageFetch
	case strings.Contains(msg, "pdf"):
		return models.FailPDFParse
	default:
		return models.FailUnknown
	}
}

// FailureMessage renders the operator-facing error message persisted with a
// failed document.
func FailureMessage(err error) string {
	if errors.Is(err, ErrEmptyText) {
		return "The PDF contains no extractable text. It may be a scanned or image-based document; run OCR or upload a text-based PDF."
	}
	return truncateUTF8(err.Error(), 500)
}
