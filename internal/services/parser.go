package services

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/cv-leaderboard/internal/models"
)

const (
	minMatchScore = 0
	maxMatchScore = 100
)

const scoreResultSchema = `{
  "type": "object",
  "properties": {
    "matchScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "profileSummary": {"type": "string", "minLength": 1}
  },
  "required": ["matchScore", "profileSummary"]
}`

var firstIntegerPattern = regexp.MustCompile(`\d+`)

// ParsedCompletion is the outcome of parsing one completion text.
type ParsedCompletion struct {
	Result     models.AnalysisResult
	Structured bool
}

type ResponseParser struct {
	schema *gojsonschema.Schema
}

func NewResponseParser() *ResponseParser {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(scoreResultSchema))
	if err != nil {
		panic("invalid score result schema: " + err.Error())
	}
	return &ResponseParser{schema: schema}
}

// Parse prefers a JSON answer that satisfies scoreResultSchema and falls
// back to the line heuristic: score is the first integer anywhere in the
// text, summary is every line after the first joined by single spaces.
func (p *ResponseParser) Parse(text string) ParsedCompletion {
	if result, ok := p.parseStructured(text); ok {
		return ParsedCompletion{Result: result, Structured: true}
	}

	return ParsedCompletion{Result: ParseHeuristic(text)}
}

func (p *ResponseParser) parseStructured(text string) (models.AnalysisResult, bool) {
	candidate := strings.TrimSpace(extractJSON(text))
	if !strings.HasPrefix(candidate, "{") {
		return models.AnalysisResult{}, false
	}

	var lenient struct {
		MatchScore     *float64 `json:"matchScore"`
		ProfileSummary string   `json:"profileSummary"`
	}
	if err := json.Unmarshal([]byte(candidate), &lenient); err != nil || lenient.MatchScore == nil {
		return models.AnalysisResult{}, false
	}

	summary := strings.TrimSpace(lenient.ProfileSummary)
	if summary == "" {
		return models.AnalysisResult{}, false
	}

	res, err := p.schema.Validate(gojsonschema.NewStringLoader(candidate))
	if err == nil && res.Valid() {
		return models.AnalysisResult{
			MatchScore:     int(*lenient.MatchScore),
			ProfileSummary: summary,
		}, true
	}

	// Well-formed JSON that breaks the bounds is still the model's answer.
	return models.AnalysisResult{
		MatchScore:     clampFloatScore(*lenient.MatchScore),
		ProfileSummary: summary,
	}, true
}

// ParseHeuristic extracts a score and summary from free text.
func ParseHeuristic(text string) models.AnalysisResult {
	score := 0
	if digits := firstIntegerPattern.FindString(text); digits != "" {
		if v, err := strconv.Atoi(digits); err == nil {
			score = v
		} else {
			score = maxMatchScore
		}
	}

	summary := ""
	lines := strings.Split(text, "\n")
	if len(lines) > 1 {
		rest := lines[1:]
		for i := range rest {
			rest[i] = strings.TrimSuffix(rest[i], "\r")
		}
		summary = strings.TrimSpace(strings.Join(rest, " "))
	}

	return models.AnalysisResult{
		MatchScore:     clampScore(score),
		ProfileSummary: summary,
	}
}

func clampScore(score int) int {
	if score < minMatchScore {
		return minMatchScore
	}
	if score > maxMatchScore {
		return maxMatchScore
	}
	return score
}

// clampFloatScore bounds the value before converting so huge numbers cannot
// overflow int.
func clampFloatScore(score float64) int {
	switch {
	case math.IsNaN(score) || score < minMatchScore:
		return minMatchScore
	case score > maxMatchScore:
		return maxMatchScore
	default:
		return int(math.Round(score))
	}
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return text
}
