package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/cv-leaderboard/internal/models"
)

func TestParseHeuristic(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.AnalysisResult
	}{
		{
			name: "score line then summary",
			text: "85\nStrong backend background, meets experience bar, good fit.",
			want: models.AnalysisResult{MatchScore: 85, ProfileSummary: "Strong backend background, meets experience bar, good fit."},
		},
		{
			name: "remaining lines joined with single spaces",
			text: "Match score: 72\nFirst sentence.\nSecond sentence.\nThird sentence.",
			want: models.AnalysisResult{MatchScore: 72, ProfileSummary: "First sentence. Second sentence. Third sentence."},
		},
		{
			name: "no digits defaults to zero",
			text: "Not a fit\nLacks required experience.",
			want: models.AnalysisResult{MatchScore: 0, ProfileSummary: "Lacks required experience."},
		},
		{
			name: "single line has empty summary",
			text: "Score 40",
			want: models.AnalysisResult{MatchScore: 40, ProfileSummary: ""},
		},
		{
			name: "first integer wins even inside the summary",
			text: "Great candidate\n10 years of Go, score 90.",
			want: models.AnalysisResult{MatchScore: 10, ProfileSummary: "10 years of Go, score 90."},
		},
		{
			name: "out of range score is clamped",
			text: "250\nSummary.",
			want: models.AnalysisResult{MatchScore: 100, ProfileSummary: "Summary."},
		},
		{
			name: "crlf line endings",
			text: "60\r\nLine one.\r\nLine two.",
			want: models.AnalysisResult{MatchScore: 60, ProfileSummary: "Line one. Line two."},
		},
		{
			name: "empty text",
			text: "",
			want: models.AnalysisResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHeuristic(tt.text))
		})
	}
}

func TestResponseParserStructured(t *testing.T) {
	p := NewResponseParser()

	got := p.Parse(`{"matchScore": 85, "profileSummary": "Strong backend background."}`)
	assert.True(t, got.Structured)
	assert.Equal(t, models.AnalysisResult{MatchScore: 85, ProfileSummary: "Strong backend background."}, got.Result)
}

func TestResponseParserStructuredInMarkdown(t *testing.T) {
	p := NewResponseParser()

	got := p.Parse("```json\n{\"matchScore\": 61, \"profileSummary\": \"Solid.\"}\n```")
	assert.True(t, got.Structured)
	assert.Equal(t, 61, got.Result.MatchScore)
	assert.Equal(t, "Solid.", got.Result.ProfileSummary)
}

func TestResponseParserStructuredOutOfRangeIsClamped(t *testing.T) {
	p := NewResponseParser()

	got := p.Parse(`{"matchScore": 140, "profileSummary": "Overqualified."}`)
	assert.True(t, got.Structured)
	assert.Equal(t, 100, got.Result.MatchScore)

	got = p.Parse(`{"matchScore": -3, "profileSummary": "No match."}`)
	assert.True(t, got.Structured)
	assert.Equal(t, 0, got.Result.MatchScore)

	got = p.Parse(`{"matchScore": 72.6, "profileSummary": "Fractional."}`)
	assert.True(t, got.Structured)
	assert.Equal(t, 73, got.Result.MatchScore)
}

func TestResponseParserHugeScoreMatchesHeuristic(t *testing.T) {
	p := NewResponseParser()

	for _, text := range []string{
		`{"matchScore": 1e20, "profileSummary": "x"}`,
		`{"matchScore": 99999999999999999999, "profileSummary": "x"}`,
	} {
		got := p.Parse(text)
		assert.True(t, got.Structured, text)
		assert.Equal(t, 100, got.Result.MatchScore, text)
	}

	assert.Equal(t, 100, ParseHeuristic("99999999999999999999\nx").MatchScore)
}

func TestResponseParserRequiresSummary(t *testing.T) {
	p := NewResponseParser()

	for _, text := range []string{
		`{"matchScore": 80}`,
		`{"matchScore": 80, "profileSummary": "   "}`,
	} {
		got := p.Parse(text)
		assert.False(t, got.Structured, text)
		assert.Equal(t, 80, got.Result.MatchScore, text)
		assert.Empty(t, got.Result.ProfileSummary, text)
	}
}

func TestResponseParserFallsBackToHeuristic(t *testing.T) {
	p := NewResponseParser()

	got := p.Parse("85\nStrong backend background, meets experience bar, good fit.")
	assert.False(t, got.Structured)
	assert.Equal(t, models.AnalysisResult{MatchScore: 85, ProfileSummary: "Strong backend background, meets experience bar, good fit."}, got.Result)

	got = p.Parse("70\nUses {braces} in prose.")
	assert.False(t, got.Structured)
	assert.Equal(t, 70, got.Result.MatchScore)
	assert.Equal(t, "Uses {braces} in prose.", got.Result.ProfileSummary)

	got = p.Parse(`{"profileSummary": "missing score"}`)
	assert.False(t, got.Structured)
	assert.Equal(t, 0, got.Result.MatchScore)
}
