package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/talentsift/screening/internal/llm"
	"github.com/talentsift/screening/internal/models"
)

// NormalizeSkill lowercases and trims a skill token so that both candidate
// and required skills compare under the same form.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSkills normalizes every entry, dropping empties and duplicates
// while preserving order.
func NormalizeSkills(skills []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		n := NormalizeSkill(s)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// SkillMatcher scores a candidate's skills against a job's required skills.
// It asks the model to account for near-matches (e.g. "golang" vs "go") and
// falls back to exact set matching when the model is unavailable. Match
// never fails; the worst case is a deterministic score.
type SkillMatcher struct {
	provider  llm.Provider
	maxTokens int
}

func NewSkillMatcher(provider llm.Provider, maxTokens int) *SkillMatcher {
	return &SkillMatcher{provider: provider, maxTokens: maxTokens}
}

func (m *SkillMatcher) Match(ctx context.Context, candidateSkills, requiredSkills []string) *models.SkillMatchResult {
	candidate := NormalizeSkills(candidateSkills)
	required := NormalizeSkills(requiredSkills)

	if len(required) == 0 {
		return BasicMatch(candidate, required)
	}

	result, err := m.matchAI(ctx, candidate, required)
	if err != nil {
		slog.Warn("ai skill match failed, using basic matching", "error", err)
		return BasicMatch(candidate, required)
	}
	return result
}

type aiMatchResponse struct {
	ExactMatches  []string `json:"exactMatches"`
	SimilarMatches []struct {
		RequiredSkill  string `json:"requiredSkill"`
		CandidateSkill string `json:"candidateSkill"`
		Reason         string `json:"reason"`
	} `json:"similarMatches"`
	MissingSkills       []string `json:"missingSkills"`
	AdditionalStrengths []string `json:"additionalStrengths"`
	Score               float64  `json:"score"`
	Explanation         string   `json:"explanation"`
}

func (m *SkillMatcher) matchAI(ctx context.Context, candidate, required []string) (*models.SkillMatchResult, error) {
	resp, err := m.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: matchSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(
				"Required skills:\n%s\n\nCandidate skills:\n%s",
				strings.Join(required, ", "), strings.Join(candidate, ", "))},
		},
		Temperature: 0,
		MaxTokens:   m.maxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, err
	}

	var parsed aiMatchResponse
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content)), &parsed); err != nil {
		return nil, fmt.Errorf("decode skill match response: %w", err)
	}

	matched := NormalizeSkills(parsed.ExactMatches)
	for _, sim := range parsed.SimilarMatches {
		if n := NormalizeSkill(sim.RequiredSkill); n != "" {
			matched = append(matched, n)
		}
	}
	matched = NormalizeSkills(matched)

	score := int(math.Round(parsed.Score))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	explanation := strings.TrimSpace(parsed.Explanation)
	if explanation == "" {
		explanation = fmt.Sprintf("Matched %d of %d required skills.", len(matched), len(required))
	}

	return &models.SkillMatchResult{
		Score:         score,
		MatchedSkills: matched,
		MissingSkills: NormalizeSkills(parsed.MissingSkills),
		Explanation:   explanation,
	}, nil
}

// BasicMatch is the deterministic fallback: exact membership over
// normalized skill sets, score proportional to required-skill coverage.
func BasicMatch(candidateSkills, requiredSkills []string) *models.SkillMatchResult {
	candidate := NormalizeSkills(candidateSkills)
	required := NormalizeSkills(requiredSkills)

	have := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		have[s] = struct{}{}
	}

	matched := []string{}
	missing := []string{}
	for _, s := range required {
		if _, ok := have[s]; ok {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}

	score := 0
	if len(required) > 0 {
		score = int(math.Round(float64(len(matched)) / float64(len(required)) * 100))
	}

	return &models.SkillMatchResult{
		Score:         score,
		MatchedSkills: matched,
		MissingSkills: missing,
		Explanation:   fmt.Sprintf("Matched %d of %d required skills.", len(matched), len(required)),
	}
}

const matchSystemPrompt = `You are a technical recruiter comparing a candidate's skills against a job's required skills. Treat close variants as matches (for example "golang" matches "go", "reactjs" matches "react"). Respond with JSON only, using exactly this structure:
{
  "exactMatches": ["skill"],
  "similarMatches": [{"requiredSkill": "skill", "candidateSkill": "skill", "reason": "short reason"}],
  "missingSkills": ["skill"],
  "additionalStrengths": ["skill"],
  "score": 0,
  "explanation": "one or two sentences"
}
The score is 0-100 and reflects how well the candidate covers the required skills.`
