package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talentsift/screening/internal/llm"
	"github.com/talentsift/screening/internal/models"
)

const maxJobDescriptionChars = 2000

// Summarizer produces a job-aware summary of a candidate profile. It never
// fails: when the model is unavailable, or when the profile itself came
// from the fallback parser, it degrades to a generic summary derived from
// the profile.
type Summarizer struct {
	provider  llm.Provider
	maxTokens int
}

func NewSummarizer(provider llm.Provider, maxTokens int) *Summarizer {
	return &Summarizer{provider: provider, maxTokens: maxTokens}
}

// Summarize makes a single model attempt. degraded signals that the profile
// was produced without AI; in that case no model call is made and the
// generic summary carries a lower relevance score.
func (s *Summarizer) Summarize(ctx context.Context, profile *models.CandidateProfile, job *JobContext, degraded bool) (*models.ContextualSummary, Provenance) {
	if degraded {
		return genericSummary(profile, 30), FallbackProvenance
	}

	summary, prov, err := s.summarizeAI(ctx, profile, job)
	if err != nil {
		slog.Warn("ai summarization failed, using generic summary", "error", err)
		return genericSummary(profile, 50), FallbackProvenance
	}
	return summary, prov
}

func (s *Summarizer) summarizeAI(ctx context.Context, profile *models.CandidateProfile, job *JobContext) (*models.ContextualSummary, Provenance, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, Provenance{}, fmt.Errorf("encode profile for summary: %w", err)
	}

	description := truncateUTF8(job.Description, maxJobDescriptionChars)

	resp, err := s.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: summarySystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(
				"Job: %s (department: %s)\nRequired skills: %s\n\nJob description:\n%s\n\nCandidate profile:\n%s",
				job.Title, job.Department, strings.Join(job.RequiredSkills, ", "),
				description, string(profileJSON))},
		},
		Temperature: 0,
		MaxTokens:   s.maxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, Provenance{}, err
	}

	var parsed models.ContextualSummary
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content)), &parsed); err != nil {
		return nil, Provenance{}, fmt.Errorf("decode summary response: %w", err)
	}

	if parsed.RelevanceScore < 0 {
		parsed.RelevanceScore = 0
	}
	if parsed.RelevanceScore > 100 {
		parsed.RelevanceScore = 100
	}
	if parsed.Highlights == nil {
		parsed.Highlights = []string{}
	}
	if strings.TrimSpace(parsed.Summary) == "" {
		return nil, Provenance{}, fmt.Errorf("summary response is empty")
	}

	return &parsed, Provenance{Provider: resp.Provider, Model: resp.Model}, nil
}

func genericSummary(profile *models.CandidateProfile, relevance int) *models.ContextualSummary {
	summary := strings.TrimSpace(profile.Summary)
	if summary == "" {
		summary = "No professional summary available for this candidate."
	}

	highlights := profile.Skills.Technical
	if len(highlights) > 5 {
		highlights = highlights[:5]
	}
	if highlights == nil {
		highlights = []string{}
	}

	return &models.ContextualSummary{
		Summary:        summary,
		Highlights:     highlights,
		RelevanceScore: relevance,
	}
}

const summarySystemPrompt = `You are a recruitment analyst. Given a job and a structured candidate profile, write a short summary of the candidate in the context of this specific job. Respond with JSON only, using exactly this structure:
{
  "summary": "2-4 sentences on the candidate's fit for this job",
  "highlights": ["short bullet", "short bullet"],
  "relevanceScore": 0
}
relevanceScore is 0-100 and reflects how relevant the candidate's background is to the job.`
