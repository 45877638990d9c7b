package services

import (
	"context"
	"fmt"
	"strings"

	"alfredoptarigan/cv-leaderboard/internal/models"
)

const (
	maxSearchResults    = 10
	candidateExcerptLen = 240
)

// IndexTask asks the candidate index to store one analyzed CV.
type IndexTask struct {
	JobID    string
	FileName string
	Text     string
}

// CandidateIndex stores CV chunks per job and answers free-text searches.
type CandidateIndex interface {
	IndexCandidate(ctx context.Context, task IndexTask) error
	Search(ctx context.Context, jobID, query string, limit int) ([]models.CandidateResult, error)
}

type candidateIndex struct {
	embedder      Embedder
	qdrant        QdrantService
	chunker       TextChunker
	promptBuilder *PromptBuilder
}

func NewCandidateIndex(embedder Embedder, qdrantService QdrantService, chunker TextChunker) CandidateIndex {
	return &candidateIndex{
		embedder:      embedder,
		qdrant:        qdrantService,
		chunker:       chunker,
		promptBuilder: NewPromptBuilder(),
	}
}

// IndexCandidate implements CandidateIndex.
func (ci *candidateIndex) IndexCandidate(ctx context.Context, task IndexTask) error {
	chunks := ci.chunker.ChunkText(task.Text, defaultChunkRunes, defaultChunkOverlap)
	if len(chunks) == 0 {
		return nil
	}

	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := ci.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of %s: %w", i+1, task.FileName, err)
		}
		embeddings = append(embeddings, embedding)
	}

	return ci.qdrant.UpsertChunks(ctx, task.JobID, task.FileName, chunks, embeddings)
}

// Search implements CandidateIndex. Several chunks of one CV collapse into
// the candidate's best-scoring chunk.
func (ci *candidateIndex) Search(ctx context.Context, jobID, query string, limit int) ([]models.CandidateResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}

	embedding, err := ci.embedder.GenerateEmbedding(ctx, ci.promptBuilder.BuildSearchQuery(query))
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	// Over-fetch so that deduplication by file still fills the page.
	hits, err := ci.qdrant.SearchSimilar(ctx, embedding, jobID, limit*3)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	candidates := make([]models.CandidateResult, 0, limit)
	for _, hit := range hits {
		if seen[hit.FileName] {
			continue
		}
		seen[hit.FileName] = true
		candidates = append(candidates, models.CandidateResult{
			FileName: hit.FileName,
			Score:    hit.Score,
			Excerpt:  FormatCandidateExcerpt(hit.Text, candidateExcerptLen),
		})
		if len(candidates) == limit {
			break
		}
	}

	return candidates, nil
}
