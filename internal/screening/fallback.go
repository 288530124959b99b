package screening

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/talentsift/screening/internal/models"
)

// FallbackParser builds a candidate profile without any model call. It is
// used whenever the AI parser is unavailable or returns garbage, so a CV
// always yields at least a minimal profile.
type FallbackParser struct{}

func NewFallbackParser() *FallbackParser {
	return &FallbackParser{}
}

// skillVocabulary is the fixed list of technical terms the fallback scans
// for. Multi-word and punctuated forms are listed explicitly; "golang" is
// used instead of the bare word "go" to avoid matching ordinary prose.
var skillVocabulary = []string{
	"javascript", "typescript", "python", "java", "golang", "rust", "kotlin",
	"swift", "scala", "ruby", "php", "c++", "c#", ".net",
	"react", "angular", "vue", "next.js", "node.js", "express", "django",
	"flask", "spring", "rails", "laravel",
	"html", "css", "sass", "tailwind", "graphql", "rest api",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "sqlite",
	"oracle", "dynamodb", "cassandra", "sql",
	"kafka", "rabbitmq", "grpc",
	"docker", "kubernetes", "terraform", "ansible", "jenkins", "git",
	"ci/cd", "aws", "azure", "gcp", "linux",
	"machine learning", "data analysis", "agile", "scrum",
}

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,2})\+?\s*years?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`(?i)experience\s*(?:of|:)?\s*(\d{1,2})\+?\s*years?`),
	regexp.MustCompile(`(?i)(\d{1,2})\+?\s*years?\s+(?:of\s+)?(?:professional|work|industry)`),
}

// Parse derives a minimal profile from raw CV text: vocabulary-based skill
// detection ordered by first occurrence, a years-of-experience estimate from
// common phrasings, and the first non-blank line as the candidate name.
func (p *FallbackParser) Parse(text string) *models.CandidateProfile {
	lower := strings.ToLower(text)

	type hit struct {
		skill string
		pos   int
	}
	hits := []hit{}
	for _, skill := range skillVocabulary {
		if pos := findSkill(lower, skill); pos >= 0 {
			hits = append(hits, hit{skill: skill, pos: pos})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	skills := make([]string, 0, len(hits))
	for _, h := range hits {
		skills = append(skills, h.skill)
	}

	profile := &models.CandidateProfile{}
	profile.PersonalInfo.Name = firstLine(text)
	profile.Skills.Technical = skills
	profile.Experience.TotalYears = extractYears(text)
	profile.Summary = fallbackSummary(profile.Experience.TotalYears, skills)
	profile.Normalize()
	return profile
}

// findSkill locates the first occurrence of skill in text that is not
// embedded inside a larger word, so "sql" does not match "postgresql" and
// "java" does not match "javascript".
func findSkill(text, skill string) int {
	for start := 0; ; {
		idx := strings.Index(text[start:], skill)
		if idx < 0 {
			return -1
		}
		pos := start + idx
		end := pos + len(skill)
		if (pos == 0 || !isWordChar(text[pos-1])) && (end == len(text) || !isWordChar(text[end])) {
			return pos
		}
		start = pos + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

func extractYears(text string) float64 {
	for _, re := range yearsPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return float64(years)
	}
	return 0
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return truncateUTF8(line, 80)
	}
	return ""
}

func fallbackSummary(years float64, skills []string) string {
	top := skills
	if len(top) > 3 {
		top = top[:3]
	}
	switch {
	case years > 0 && len(top) > 0:
		return fmt.Sprintf("Candidate with approximately %.0f years of experience. Key skills: %s.", years, strings.Join(top, ", "))
	case len(top) > 0:
		return fmt.Sprintf("Candidate with skills in %s.", strings.Join(top, ", "))
	case years > 0:
		return fmt.Sprintf("Candidate with approximately %.0f years of experience.", years)
	default:
		return "Profile generated from CV text without AI assistance."
	}
}
