package models

import (
	"time"

	"github.com/google/uuid"
)

// ContextualSummary is the job-tailored narrative for one (CV, job) run.
type ContextualSummary struct {
	Summary        string   `json:"summary"`
	Highlights     []string `json:"highlights"`
	RelevanceScore int      `json:"relevanceScore"`
}

// SkillMatchResult is the outcome of matching candidate skills against a
// job's required skills, before persistence.
type SkillMatchResult struct {
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Explanation   string   `json:"explanation,omitempty"`
}

// JobCandidateMatch is the committed match row, uniquely keyed by
// (JobID, CandidateProfileID); re-processing upserts rather than duplicates.
type JobCandidateMatch struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	JobID              uuid.UUID `json:"job_id" db:"job_id"`
	CandidateProfileID uuid.UUID `json:"candidate_profile_id" db:"candidate_profile_id"`
	Score              int       `json:"score" db:"score"`
	MatchedSkills      []string  `json:"matched_skills" db:"matched_skills"`
	MissingSkills      []string  `json:"missing_skills" db:"missing_skills"`
	Explanation        *string   `json:"explanation,omitempty" db:"explanation"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// AIOutput is one append-only record of a generative call's result.
type AIOutput struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CVDocumentID uuid.UUID       `json:"cv_document_id" db:"cv_document_id"`
	OutputType   string          `json:"output_type" db:"output_type"`
	Provider     string          `json:"provider" db:"provider"`
	Model        string          `json:"model" db:"model"`
	Payload      []byte          `json:"payload" db:"payload"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

const (
	OutputTypeProfile = "CV_PROFILE"
	OutputTypeSummary = "SUMMARY"
)

// ProviderFallback tags outputs produced by the deterministic fallback path.
const ProviderFallback = "fallback"
