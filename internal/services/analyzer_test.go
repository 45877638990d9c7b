package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-leaderboard/internal/metrics"
	"alfredoptarigan/cv-leaderboard/internal/testutil"
)

type fakeCompletion struct {
	mu      sync.Mutex
	output  string
	err     error
	prompts []string
	block   bool
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.output, f.err
}

func (f *fakeCompletion) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newTestAnalyzer(completion CompletionClient, structured bool) AnalyzerService {
	return NewAnalyzerService(NewDocumentExtractor(), completion, metrics.NewManager(), time.Second, structured)
}

func TestAnalyzeDocx(t *testing.T) {
	completion := &fakeCompletion{output: "85\nStrong backend background, meets experience bar, good fit."}
	analyzer := newTestAnalyzer(completion, false)

	analysis, err := analyzer.Analyze(context.Background(), AnalyzeInput{
		JobDescription: "Senior backend engineer, 5y Go experience",
		FileName:       "jane.docx",
		MimeType:       MimeTypeDOCX,
		Data:           testutil.DocxWithParagraphs("Jane Doe", "Go engineer for 6 years"),
	})
	require.NoError(t, err)

	assert.Equal(t, 85, analysis.Result.MatchScore)
	assert.Equal(t, "Strong backend background, meets experience bar, good fit.", analysis.Result.ProfileSummary)
	assert.Equal(t, "Jane Doe\nGo engineer for 6 years", analysis.CVText)
	assert.False(t, analysis.Structured)

	require.Equal(t, 1, completion.calls())
	assert.Contains(t, completion.prompts[0], "Job Description: Senior backend engineer, 5y Go experience")
	assert.Contains(t, completion.prompts[0], "CV: Jane Doe\nGo engineer for 6 years")
}

func TestAnalyzeStructured(t *testing.T) {
	completion := &fakeCompletion{output: `{"matchScore": 77, "profileSummary": "Capable engineer."}`}
	analyzer := newTestAnalyzer(completion, true)

	analysis, err := analyzer.Analyze(context.Background(), AnalyzeInput{
		JobDescription: "jd",
		FileName:       "cv.docx",
		MimeType:       MimeTypeDOCX,
		Data:           testutil.DocxWithParagraphs("cv"),
	})
	require.NoError(t, err)

	assert.True(t, analysis.Structured)
	assert.Equal(t, 77, analysis.Result.MatchScore)
	assert.Contains(t, completion.prompts[0], `"matchScore"`)
}

func TestAnalyzeUnsupportedNeverCallsCompletion(t *testing.T) {
	for _, mimeType := range []string{"text/plain", "image/png", "application/msword", ""} {
		completion := &fakeCompletion{output: "90\nx"}
		analyzer := newTestAnalyzer(completion, false)

		_, err := analyzer.Analyze(context.Background(), AnalyzeInput{
			JobDescription: "jd",
			FileName:       "cv.txt",
			MimeType:       mimeType,
			Data:           []byte("plain text cv"),
		})

		assert.ErrorIs(t, err, ErrUnsupportedFormat, mimeType)
		assert.Zero(t, completion.calls(), mimeType)
	}
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	completion := &fakeCompletion{output: "90\nx"}
	analyzer := newTestAnalyzer(completion, false)

	_, err := analyzer.Analyze(context.Background(), AnalyzeInput{
		JobDescription: "jd",
		FileName:       "broken.pdf",
		MimeType:       MimeTypePDF,
		Data:           []byte("this is not a pdf"),
	})

	assert.ErrorIs(t, err, ErrExtraction)
	assert.Zero(t, completion.calls())
}

func TestAnalyzeCompletionFailure(t *testing.T) {
	completion := &fakeCompletion{err: errors.New("upstream down")}
	analyzer := newTestAnalyzer(completion, false)

	_, err := analyzer.Analyze(context.Background(), AnalyzeInput{
		JobDescription: "jd",
		FileName:       "cv.docx",
		MimeType:       MimeTypeDOCX,
		Data:           testutil.DocxWithParagraphs("cv"),
	})

	assert.ErrorIs(t, err, ErrCompletion)
}

func TestAnalyzeCompletionTimeout(t *testing.T) {
	completion := &fakeCompletion{block: true}
	analyzer := NewAnalyzerService(NewDocumentExtractor(), completion, metrics.NewManager(), 20*time.Millisecond, false)

	_, err := analyzer.Analyze(context.Background(), AnalyzeInput{
		JobDescription: "jd",
		FileName:       "cv.docx",
		MimeType:       MimeTypeDOCX,
		Data:           testutil.DocxWithParagraphs("cv"),
	})

	assert.ErrorIs(t, err, ErrCompletion)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
