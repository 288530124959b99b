package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/talentsift/screening/internal/models"
)

// UpsertMatch commits a match result keyed by (job, candidate profile);
// re-processing overwrites the previous score instead of duplicating rows.
func (s *Store) UpsertMatch(ctx context.Context, jobID, candidateProfileID uuid.UUID, match *models.SkillMatchResult) error {
	matched, err := json.Marshal(match.MatchedSkills)
	if err != nil {
		return fmt.Errorf("encode matched skills: %w", err)
	}
	missing, err := json.Marshal(match.MissingSkills)
	if err != nil {
		return fmt.Errorf("encode missing skills: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO job_candidate_matches
		     (job_id, candidate_profile_id, score, matched_skills, missing_skills, explanation, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (job_id, candidate_profile_id) DO UPDATE SET
		     score = EXCLUDED.score,
		     matched_skills = EXCLUDED.matched_skills,
		     missing_skills = EXCLUDED.missing_skills,
		     explanation = EXCLUDED.explanation,
		     updated_at = now()`,
		jobID, candidateProfileID, match.Score, matched, missing, match.Explanation)
	if err != nil {
		return wrap("upsert match", err)
	}
	return nil
}
