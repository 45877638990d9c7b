package models

// Job is a hiring requisition used as scoring context. Jobs are immutable
// once created.
type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LeaderboardEntry is one analyzed CV. Score is best-effort 0-100.
type LeaderboardEntry struct {
	FileName string `json:"fileName"`
	Score    int    `json:"score"`
	Summary  string `json:"summary"`
}

// Leaderboard maps a job id to its entries in insertion order.
type Leaderboard map[string][]LeaderboardEntry
