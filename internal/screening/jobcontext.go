package screening

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/talentsift/screening/internal/models"
)

// DefaultDepartment is used when a job has no department set.
const DefaultDepartment = "General"

// JobContext is the slice of job metadata the pipeline matches against,
// resolved through the application linked to the CV document.
type JobContext struct {
	JobID          uuid.UUID
	Title          string
	Department     string
	Description    string
	RequiredSkills []string
}

// NewJobContext derives the matching context from a job row, applying the
// department default and normalizing the required-skill list.
func NewJobContext(job *models.Job) *JobContext {
	department := DefaultDepartment
	if job.Department != nil && *job.Department != "" {
		department = *job.Department
	}
	return &JobContext{
		JobID:          job.ID,
		Title:          job.Title,
		Department:     department,
		Description:    job.Description,
		RequiredSkills: ExtractRequiredSkills(job.Requirements),
	}
}

// ExtractRequiredSkills pulls the required-skill list out of a job's
// free-form requirements blob. It accepts either a "requiredSkills" or a
// "skills" key, keeps string entries only, normalizes them, and drops
// empties. Absent, null or non-object requirements yield an empty list, as
// does a non-array skills value.
func ExtractRequiredSkills(requirements json.RawMessage) []string {
	skills := []string{}
	if len(requirements) == 0 {
		return skills
	}

	var blob map[string]any
	if err := json.Unmarshal(requirements, &blob); err != nil || blob == nil {
		return skills
	}

	raw, ok := blob["requiredSkills"]
	if !ok {
		raw, ok = blob["skills"]
	}
	if !ok {
		return skills
	}

	entries, ok := raw.([]any)
	if !ok {
		return skills
	}

	for _, entry := range entries {
		s, ok := entry.(string)
		if !ok {
			continue
		}
		if n := NormalizeSkill(s); n != "" {
			skills = append(skills, n)
		}
	}
	return skills
}
