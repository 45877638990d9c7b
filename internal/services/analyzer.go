package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"alfredoptarigan/cv-leaderboard/internal/metrics"
	"alfredoptarigan/cv-leaderboard/internal/models"
)

var ErrExtraction = errors.New("failed to extract text")

type AnalyzeInput struct {
	JobDescription string
	FileName       string
	MimeType       string
	Data           []byte
}

// Analysis carries the parsed result plus the extracted CV text for callers
// that index candidates.
type Analysis struct {
	Result     models.AnalysisResult
	CVText     string
	Structured bool
}

type AnalyzerService interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*Analysis, error)
}

type analyzerService struct {
	extractor     DocumentExtractor
	completion    CompletionClient
	parser        *ResponseParser
	promptBuilder *PromptBuilder
	metrics       *metrics.Manager
	timeout       time.Duration
	structured    bool
}

func NewAnalyzerService(
	extractor DocumentExtractor,
	completion CompletionClient,
	metricsManager *metrics.Manager,
	timeout time.Duration,
	structured bool,
) AnalyzerService {
	return &analyzerService{
		extractor:     extractor,
		completion:    completion,
		parser:        NewResponseParser(),
		promptBuilder: NewPromptBuilder(),
		metrics:       metricsManager,
		timeout:       timeout,
		structured:    structured,
	}
}

// Analyze implements AnalyzerService. Unsupported types are rejected before
// any extraction or completion work happens.
func (a *analyzerService) Analyze(ctx context.Context, input AnalyzeInput) (*Analysis, error) {
	if !IsSupportedMimeType(input.MimeType) {
		a.metrics.RecordAnalysis(metrics.OutcomeUnsupported)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, input.MimeType)
	}

	cvText, err := a.extractor.ExtractText(input.Data, input.MimeType)
	if err != nil {
		a.metrics.RecordAnalysis(metrics.OutcomeExtraction)
		return nil, fmt.Errorf("%w from %s: %w", ErrExtraction, input.FileName, err)
	}

	log.Printf("📄 Extracted %d characters from %s\n", len(cvText), input.FileName)

	var prompt string
	if a.structured {
		prompt = a.promptBuilder.BuildStructuredScoringPrompt(input.JobDescription, cvText)
	} else {
		prompt = a.promptBuilder.BuildScoringPrompt(input.JobDescription, cvText)
	}

	output, err := a.complete(ctx, prompt)
	if err != nil {
		a.metrics.RecordAnalysis(metrics.OutcomeCompletion)
		return nil, err
	}

	parsed := a.parser.Parse(output)
	if parsed.Structured {
		a.metrics.RecordParse(metrics.ParseStructured)
	} else {
		a.metrics.RecordParse(metrics.ParseHeuristic)
	}
	a.metrics.RecordAnalysis(metrics.OutcomeSuccess)

	log.Printf("✅ Scored %s: %d\n", input.FileName, parsed.Result.MatchScore)

	return &Analysis{
		Result:     parsed.Result,
		CVText:     cvText,
		Structured: parsed.Structured,
	}, nil
}

func (a *analyzerService) complete(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	output, err := a.completion.Complete(ctx, prompt)
	a.metrics.ObserveCompletion(time.Since(start))
	if err != nil {
		if !errors.Is(err, ErrCompletion) {
			err = fmt.Errorf("%w: %w", ErrCompletion, err)
		}
		return "", err
	}

	return output, nil
}
