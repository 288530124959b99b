package models

import (
	"time"

	"github.com/google/uuid"
)

// CandidateProfile is the normalized structured representation of a CV,
// produced once per document by the AI parser or the deterministic fallback.
type CandidateProfile struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Summary      string       `json:"summary"`
	Skills       SkillSet     `json:"skills"`
	Experience   Experience   `json:"experience"`
	Education    []Education  `json:"education"`
	Certifications []string   `json:"certifications"`
	Projects     []Project    `json:"projects"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// SkillSet partitions skills; the three lists are always present, possibly
// empty, never null.
type SkillSet struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Languages []string `json:"languages"`
}

type Experience struct {
	TotalYears float64 `json:"totalYears"`
	Roles      []Role  `json:"roles"`
}

type Role struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year,omitempty"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Normalize replaces nil slices so the profile marshals with empty lists
// instead of nulls.
func (p *CandidateProfile) Normalize() {
	if p.Skills.Technical == nil {
		p.Skills.Technical = []string{}
	}
	if p.Skills.Soft == nil {
		p.Skills.Soft = []string{}
	}
	if p.Skills.Languages == nil {
		p.Skills.Languages = []string{}
	}
	if p.Experience.Roles == nil {
		p.Experience.Roles = []Role{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
}

// ProfileRecord is the persisted row wrapping a CandidateProfile.
type ProfileRecord struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	CVDocumentID uuid.UUID        `json:"cv_document_id" db:"cv_document_id"`
	Profile      CandidateProfile `json:"profile" db:"profile"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}
