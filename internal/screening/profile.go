package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/talentsift/screening/internal/llm"
	"github.com/talentsift/screening/internal/models"
)

const (
	profileAttempts   = 2
	profileRetryDelay = 300 * time.Millisecond
)

// Provenance records which model produced a persisted AI output.
type Provenance struct {
	Provider string
	Model    string
}

// FallbackProvenance tags outputs produced without a model call.
var FallbackProvenance = Provenance{Provider: models.ProviderFallback, Model: models.ProviderFallback}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s\-().]{7,}\d`)
)

// RedactPII masks email addresses and phone-shaped numbers before CV text
// is sent to an external model.
func RedactPII(text string) string {
	text = emailRe.ReplaceAllString(text, "[EMAIL]")
	text = phoneRe.ReplaceAllString(text, "[PHONE]")
	return text
}

// ProfileParser turns raw CV text into a structured candidate profile via
// the configured model, JSON-only output at temperature zero.
type ProfileParser struct {
	provider  llm.Provider
	maxTokens int
}

func NewProfileParser(provider llm.Provider, maxTokens int) *ProfileParser {
	return &ProfileParser{provider: provider, maxTokens: maxTokens}
}

// Parse makes up to two attempts, with a short backoff between them. The
// CV text is PII-redacted before it reaches the prompt. A response that
// carries neither a candidate name nor a single technical skill is treated
// as a failed attempt.
func (p *ProfileParser) Parse(ctx context.Context, text string) (*models.CandidateProfile, Provenance, error) {
	redacted := RedactPII(text)

	var lastErr error
	for attempt := 1; attempt <= profileAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, Provenance{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * profileRetryDelay):
			}
			slog.Info("retrying profile parse", "attempt", attempt)
		}

		profile, prov, err := p.parseOnce(ctx, redacted)
		if err == nil {
			return profile, prov, nil
		}
		lastErr = err
		slog.Warn("profile parse attempt failed", "attempt", attempt, "error", err)

		var llmErr *llm.Error
		if errors.As(err, &llmErr) && llmErr.Kind == llm.KindAuth {
			break
		}
	}
	return nil, Provenance{}, fmt.Errorf("parse candidate profile: %w", lastErr)
}

func (p *ProfileParser) parseOnce(ctx context.Context, text string) (*models.CandidateProfile, Provenance, error) {
	resp, err := p.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: profileSystemPrompt},
			{Role: llm.RoleUser, Content: "CV text:\n\n" + text},
		},
		Temperature: 0,
		MaxTokens:   p.maxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, Provenance{}, err
	}

	var profile models.CandidateProfile
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content)), &profile); err != nil {
		return nil, Provenance{}, fmt.Errorf("decode profile response: %w", err)
	}
	profile.Normalize()

	if strings.TrimSpace(profile.PersonalInfo.Name) == "" && len(profile.Skills.Technical) == 0 {
		return nil, Provenance{}, errors.New("profile response has neither a name nor technical skills")
	}

	return &profile, Provenance{Provider: resp.Provider, Model: resp.Model}, nil
}

// stripJSONFences removes markdown code fences that models sometimes wrap
// around JSON output despite being told not to.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

const profileSystemPrompt = `You are a CV parsing engine. Extract a structured candidate profile from the CV text and respond with JSON only, no markdown, using exactly this structure:
{
  "personalInfo": {"name": "", "email": "", "phone": "", "location": ""},
  "summary": "short professional summary",
  "skills": {"technical": [], "soft": [], "languages": []},
  "experience": {"totalYears": 0, "roles": [{"title": "", "company": "", "duration": "", "responsibilities": []}]},
  "education": [{"institution": "", "degree": "", "year": ""}],
  "certifications": [],
  "projects": [{"name": "", "description": ""}]
}
Use empty strings and empty arrays for anything the CV does not state. Do not invent facts. Contact details may appear as [EMAIL] or [PHONE] placeholders; leave those fields empty in that case.`
