package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/screening/internal/models"
)

func testProfile() *models.CandidateProfile {
	p := &models.CandidateProfile{
		Summary: "Backend engineer with Go experience.",
	}
	p.PersonalInfo.Name = "Jane Doe"
	p.Skills.Technical = []string{"go", "postgresql", "docker", "kafka", "redis", "terraform"}
	p.Normalize()
	return p
}

func testJobContext() *JobContext {
	return &JobContext{
		Title:          "Backend Engineer",
		Department:     "Engineering",
		Description:    "Build and operate Go services.",
		RequiredSkills: []string{"go", "postgresql"},
	}
}

func TestSummarizerAI(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"summary": "Strong fit for the backend role.", "highlights": ["5 years of Go", "Postgres at scale"], "relevanceScore": 85}`,
	}}
	s := NewSummarizer(provider, 1024)

	summary, prov := s.Summarize(context.Background(), testProfile(), testJobContext(), false)
	require.Equal(t, 1, provider.calls)

	assert.Equal(t, "Strong fit for the backend role.", summary.Summary)
	assert.Equal(t, []string{"5 years of Go", "Postgres at scale"}, summary.Highlights)
	assert.Equal(t, 85, summary.RelevanceScore)
	assert.Equal(t, Provenance{Provider: "gemini", Model: "test-model"}, prov)
}

func TestSummarizerDegradedSkipsModel(t *testing.T) {
	provider := &fakeProvider{}
	s := NewSummarizer(provider, 1024)

	summary, prov := s.Summarize(context.Background(), testProfile(), testJobContext(), true)
	assert.Equal(t, 0, provider.calls)

	assert.Equal(t, "Backend engineer with Go experience.", summary.Summary)
	assert.Equal(t, []string{"go", "postgresql", "docker", "kafka", "redis"}, summary.Highlights)
	assert.Equal(t, 30, summary.RelevanceScore)
	assert.Equal(t, FallbackProvenance, prov)
}

func TestSummarizerFallsBackOnError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("backend down")}
	s := NewSummarizer(provider, 1024)

	summary, prov := s.Summarize(context.Background(), testProfile(), testJobContext(), false)
	assert.Equal(t, 1, provider.calls)

	assert.Equal(t, "Backend engineer with Go experience.", summary.Summary)
	assert.Equal(t, 50, summary.RelevanceScore)
	assert.Equal(t, FallbackProvenance, prov)
}

func TestSummarizerClampsRelevance(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"summary": "ok", "relevanceScore": 400}`,
	}}
	s := NewSummarizer(provider, 1024)

	summary, _ := s.Summarize(context.Background(), testProfile(), testJobContext(), false)
	assert.Equal(t, 100, summary.RelevanceScore)
	assert.Equal(t, []string{}, summary.Highlights)
}

func TestSummarizerGenericHandlesEmptyProfile(t *testing.T) {
	provider := &fakeProvider{err: errors.New("down")}
	s := NewSummarizer(provider, 1024)

	profile := &models.CandidateProfile{}
	profile.Normalize()

	summary, _ := s.Summarize(context.Background(), profile, testJobContext(), false)
	assert.Equal(t, "No professional summary available for this candidate.", summary.Summary)
	assert.Equal(t, []string{}, summary.Highlights)
}
