package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentsift/screening/internal/models"
)

// JobForCV resolves the job a CV document was submitted for through its
// application. When a document somehow has several applications, the most
// recent one wins.
func (s *Store) JobForCV(ctx context.Context, cvDocumentID uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.pool.QueryRow(ctx,
		`SELECT j.id, j.title, j.department, j.description, j.requirements, j.created_at
		 FROM jobs j
		 JOIN applications a ON a.job_id = j.id
		 WHERE a.cv_document_id = $1
		 ORDER BY a.created_at DESC
		 LIMIT 1`, cvDocumentID).
		Scan(&job.ID, &job.Title, &job.Department, &job.Description, &job.Requirements, &job.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrap("job for cv", err)
	}
	return &job, nil
}
