package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/cv-leaderboard/internal/config"
	"alfredoptarigan/cv-leaderboard/internal/metrics"
	"alfredoptarigan/cv-leaderboard/internal/services"
)

// Scores one CV file against a job description and prints the result as JSON.
//
//	go run ./scripts -cv ./resume.pdf -jd ./job.txt
//	go run ./scripts -cv ./resume.docx -job "Senior backend engineer"
func main() {
	cvPath := flag.String("cv", "", "path to the CV (.pdf or .docx)")
	jdPath := flag.String("jd", "", "path to a text file with the job description")
	jobText := flag.String("job", "", "job description text")
	flag.Parse()

	if *cvPath == "" || (*jdPath == "" && *jobText == "") {
		flag.Usage()
		os.Exit(2)
	}

	jobDescription, err := loadJobDescription(*jdPath, *jobText)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	mimeType, err := mimeFromExt(*cvPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	data, err := os.ReadFile(*cvPath)
	if err != nil {
		log.Fatalf("❌ Failed to read CV: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	completion, err := services.NewCompletionClient(cfg.Completion, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize completion client: %v", err)
	}

	analyzer := services.NewAnalyzerService(
		services.NewDocumentExtractor(),
		completion,
		metrics.NewManager(),
		cfg.Completion.Timeout,
		cfg.Completion.Structured,
	)

	analysis, err := analyzer.Analyze(context.Background(), services.AnalyzeInput{
		JobDescription: jobDescription,
		FileName:       filepath.Base(*cvPath),
		MimeType:       mimeType,
		Data:           data,
	})
	if err != nil {
		log.Fatalf("❌ Analysis failed: %v", err)
	}

	out, err := json.MarshalIndent(analysis.Result, "", "  ")
	if err != nil {
		log.Fatalf("❌ Failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}

func loadJobDescription(path, text string) (string, error) {
	if path == "" {
		return strings.TrimSpace(text), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}

	description := strings.TrimSpace(string(raw))
	if description == "" {
		return "", fmt.Errorf("job description file %s is empty", path)
	}
	return description, nil
}

func mimeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return services.MimeTypePDF, nil
	case ".docx":
		return services.MimeTypeDOCX, nil
	default:
		return "", fmt.Errorf("unsupported CV file type: %s", filepath.Ext(path))
	}
}
