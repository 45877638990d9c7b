package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-leaderboard/internal/services"
)

type AnalyzeHandler struct {
	analyzer    services.AnalyzerService
	storage     services.StorageService
	maxFileSize int64
}

func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	storage services.StorageService,
	maxFileSize int64,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		storage:     storage,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	upload, uploadErr := readCVUpload(c, h.maxFileSize)
	if uploadErr != nil {
		return sendError(c, uploadErr)
	}

	jobDescription := formValue(c, "jobDescription")
	if jobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "jobDescription is required",
		})
	}

	if _, _, err := h.storage.SaveFile(upload.FileName, upload.Data, "cv"); err != nil {
		log.Printf("❌ Failed to store %s: %v", upload.FileName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save CV file",
		})
	}

	analysis, err := h.analyzer.Analyze(c.UserContext(), services.AnalyzeInput{
		JobDescription: jobDescription,
		FileName:       upload.FileName,
		MimeType:       upload.MimeType,
		Data:           upload.Data,
	})
	if err != nil {
		log.Printf("❌ Failed to analyze %s: %v", upload.FileName, err)
		return sendError(c, err)
	}

	return c.JSON(analysis.Result)
}
