package screening

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackParserSkillDetection(t *testing.T) {
	p := NewFallbackParser()

	profile := p.Parse("Jane Doe\n5 years experience in React, Node.js and PostgreSQL.")
	require.NotNil(t, profile)

	assert.Equal(t, "Jane Doe", profile.PersonalInfo.Name)
	assert.Equal(t, []string{"react", "node.js", "postgresql"}, profile.Skills.Technical)
	assert.Equal(t, 5.0, profile.Experience.TotalYears)
	assert.Contains(t, profile.Summary, "5 years")
	assert.Contains(t, profile.Summary, "react")
}

func TestFallbackParserSkillsOrderedByFirstOccurrence(t *testing.T) {
	p := NewFallbackParser()

	profile := p.Parse("Docker first, then Kubernetes, finally Python.")
	assert.Equal(t, []string{"docker", "kubernetes", "python"}, profile.Skills.Technical)
}

func TestFallbackParserDoesNotMatchBareGo(t *testing.T) {
	p := NewFallbackParser()

	profile := p.Parse("I like to go hiking on weekends.")
	assert.Empty(t, profile.Skills.Technical)

	profile = p.Parse("Built services in Golang.")
	assert.Equal(t, []string{"golang"}, profile.Skills.Technical)
}

func TestFallbackParserYearsPhrasings(t *testing.T) {
	p := NewFallbackParser()

	tests := []struct {
		text string
		want float64
	}{
		{"8 years of experience in backend work", 8},
		{"12+ years experience", 12},
		{"Experience: 3 years", 3},
		{"7 years of professional software development", 7},
		{"No tenure mentioned here", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Parse(tt.text).Experience.TotalYears, tt.text)
	}
}

func TestFallbackParserNameFromFirstLine(t *testing.T) {
	p := NewFallbackParser()

	profile := p.Parse("\n\n  John Smith  \nSenior Engineer")
	assert.Equal(t, "John Smith", profile.PersonalInfo.Name)
}

func TestFallbackParserNameCapKeepsRunesWhole(t *testing.T) {
	p := NewFallbackParser()

	// the 80-byte cap lands in the middle of the two-byte "é"
	profile := p.Parse(strings.Repeat("a", 79) + "é\nSenior Engineer")
	assert.True(t, utf8.ValidString(profile.PersonalInfo.Name))
	assert.Equal(t, strings.Repeat("a", 79), profile.PersonalInfo.Name)
}

func TestFallbackParserAlwaysNormalized(t *testing.T) {
	p := NewFallbackParser()

	profile := p.Parse("")
	assert.NotNil(t, profile.Skills.Technical)
	assert.NotNil(t, profile.Skills.Soft)
	assert.NotNil(t, profile.Education)
	assert.NotNil(t, profile.Experience.Roles)
	assert.NotEmpty(t, profile.Summary)
}
