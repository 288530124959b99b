package store

import (
	"context"

	"github.com/google/uuid"
)

// InsertAIOutput appends one generative result with its provenance. Outputs
// are never updated; re-processing adds new rows.
func (s *Store) InsertAIOutput(ctx context.Context, cvDocumentID uuid.UUID, outputType, provider, model string, payload []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ai_outputs (cv_document_id, output_type, provider, model, payload)
		 VALUES ($1, $2, $3, $4, $5)`,
		cvDocumentID, outputType, provider, model, payload)
	if err != nil {
		return wrap("insert ai output", err)
	}
	return nil
}
