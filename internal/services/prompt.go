package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildScoringPrompt asks for a 0-100 match score and a 3-sentence profile
// summary. Both inputs are inserted verbatim.
func (pb *PromptBuilder) BuildScoringPrompt(jobDescription, cvText string) string {
	return fmt.Sprintf(`You are an AI assistant. Compare the following job description and CV. Provide:
1. A match score (0 to 100) on how suitable the candidate is.
2. A 3-sentence professional profile summary.

Job Description: %s
CV: %s`, jobDescription, cvText)
}

// BuildStructuredScoringPrompt is BuildScoringPrompt plus an explicit JSON
// answer format matching scoreResultSchema.
func (pb *PromptBuilder) BuildStructuredScoringPrompt(jobDescription, cvText string) string {
	return pb.BuildScoringPrompt(jobDescription, cvText) + `

Return ONLY a JSON object in the following format, without markdown:
{
  "matchScore": <integer 0-100>,
  "profileSummary": "<3-sentence professional profile summary>"
}`
}

// BuildSearchQuery normalizes a free-text candidate search before embedding.
func (pb *PromptBuilder) BuildSearchQuery(query string) string {
	return fmt.Sprintf("Candidate CV experience and skills: %s", strings.TrimSpace(query))
}

// FormatCandidateExcerpt trims a matched chunk for display.
func FormatCandidateExcerpt(text string, maxRunes int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes]) + "..."
}
