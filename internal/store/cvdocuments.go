package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentsift/screening/internal/models"
)

func (s *Store) GetCVDocument(ctx context.Context, id uuid.UUID) (*models.CVDocument, error) {
	var doc models.CVDocument
	err := s.pool.QueryRow(ctx,
		`SELECT id, storage_key, extracted_text, status, error_message, fail_reason, created_at
		 FROM cv_documents WHERE id = $1`, id).
		Scan(&doc.ID, &doc.StorageKey, &doc.ExtractedText, &doc.Status,
			&doc.ErrorMessage, &doc.FailReason, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrap("get cv document", err)
	}
	return &doc, nil
}

// SetExtractedText stores the extracted text and advances the document to
// TEXT_EXTRACTED, clearing any failure from a previous run.
func (s *Store) SetExtractedText(ctx context.Context, id uuid.UUID, text string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE cv_documents
		 SET extracted_text = $2, status = $3, error_message = NULL, fail_reason = NULL
		 WHERE id = $1`,
		id, text, models.CVStatusTextExtracted)
	if err != nil {
		return wrap("set extracted text", err)
	}
	return nil
}

func (s *Store) UpdateCVStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE cv_documents SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return wrap("update cv status", err)
	}
	return nil
}

func (s *Store) MarkCVFailed(ctx context.Context, id uuid.UUID, message string, reason models.FailReason) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE cv_documents
		 SET status = $2, error_message = $3, fail_reason = $4
		 WHERE id = $1`,
		id, models.CVStatusFailed, message, string(reason))
	if err != nil {
		return wrap("mark cv failed", err)
	}
	return nil
}

// CreateCVDocument registers an already-uploaded object. Used by the CLI
// when seeding documents for processing.
func (s *Store) CreateCVDocument(ctx context.Context, storageKey string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cv_documents (storage_key) VALUES ($1) RETURNING id`, storageKey).
		Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("create cv document", err)
	}
	return id, nil
}
