package models

// AnalysisResult is the response of POST /api/analyze.
type AnalysisResult struct {
	MatchScore     int    `json:"matchScore"`
	ProfileSummary string `json:"profileSummary"`
}

type CreateJobRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

type SearchResponse struct {
	JobID      string            `json:"jobId"`
	Query      string            `json:"query"`
	Candidates []CandidateResult `json:"candidates"`
}

type CandidateResult struct {
	FileName string  `json:"fileName"`
	Score    float32 `json:"score"`
	Excerpt  string  `json:"excerpt"`
}
