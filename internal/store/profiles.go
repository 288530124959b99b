package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentsift/screening/internal/models"
)

// UpsertCandidateProfile writes the structured profile for a document,
// replacing the previous one on re-processing. Returns the profile row id.
func (s *Store) UpsertCandidateProfile(ctx context.Context, cvDocumentID uuid.UUID, profile *models.CandidateProfile) (uuid.UUID, error) {
	payload, err := json.Marshal(profile)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode candidate profile: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO candidate_profiles (cv_document_id, profile)
		 VALUES ($1, $2)
		 ON CONFLICT (cv_document_id) DO UPDATE SET profile = EXCLUDED.profile
		 RETURNING id`,
		cvDocumentID, payload).
		Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("upsert candidate profile", err)
	}
	return id, nil
}

// GetCandidateProfile loads the stored profile for a document.
func (s *Store) GetCandidateProfile(ctx context.Context, cvDocumentID uuid.UUID) (*models.ProfileRecord, error) {
	var rec models.ProfileRecord
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, cv_document_id, profile, created_at
		 FROM candidate_profiles WHERE cv_document_id = $1`, cvDocumentID).
		Scan(&rec.ID, &rec.CVDocumentID, &payload, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrap("get candidate profile", err)
	}
	if err := json.Unmarshal(payload, &rec.Profile); err != nil {
		return nil, wrap("decode candidate profile", err)
	}
	return &rec, nil
}
