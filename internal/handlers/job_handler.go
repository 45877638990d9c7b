package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-leaderboard/internal/metrics"
	"alfredoptarigan/cv-leaderboard/internal/models"
	"alfredoptarigan/cv-leaderboard/internal/services"
)

const defaultSearchLimit = 5

type JobHandler struct {
	store       services.StateStore
	analyzer    services.AnalyzerService
	storage     services.StorageService
	metrics     *metrics.Manager
	worker      services.Worker
	index       services.CandidateIndex
	maxFileSize int64
}

// NewJobHandler wires the job endpoints. worker and index may be nil when
// the candidate index is disabled.
func NewJobHandler(
	store services.StateStore,
	analyzer services.AnalyzerService,
	storage services.StorageService,
	metricsManager *metrics.Manager,
	worker services.Worker,
	index services.CandidateIndex,
	maxFileSize int64,
) *JobHandler {
	return &JobHandler{
		store:       store,
		analyzer:    analyzer,
		storage:     storage,
		metrics:     metricsManager,
		worker:      worker,
		index:       index,
		maxFileSize: maxFileSize,
	}
}

// HandleListJobs handles GET /jobs
func (h *JobHandler) HandleListJobs(c *fiber.Ctx) error {
	jobs, err := h.store.ListJobs(c.UserContext())
	if err != nil {
		log.Printf("❌ Failed to list jobs: %v", err)
		return sendError(c, err)
	}

	return c.JSON(jobs)
}

// HandleCreateJob handles POST /jobs
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	job, err := h.createJob(c.UserContext(), req)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleGetJob handles GET /jobs/:id
func (h *JobHandler) HandleGetJob(c *fiber.Ctx) error {
	job, err := h.store.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(job)
}

// HandleGetLeaderboard handles GET /jobs/:id/leaderboard
func (h *JobHandler) HandleGetLeaderboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	jobID := c.Params("id")

	if _, err := h.store.GetJob(ctx, jobID); err != nil {
		return sendError(c, err)
	}

	entries, err := h.store.Leaderboard(ctx, jobID)
	if err != nil {
		log.Printf("❌ Failed to load leaderboard for %s: %v", jobID, err)
		return sendError(c, err)
	}

	return c.JSON(entries)
}

// HandleGetLeaderboards handles GET /leaderboard
func (h *JobHandler) HandleGetLeaderboards(c *fiber.Ctx) error {
	board, err := h.store.Leaderboards(c.UserContext())
	if err != nil {
		log.Printf("❌ Failed to load leaderboards: %v", err)
		return sendError(c, err)
	}

	return c.JSON(board)
}

// HandleUploadCV handles POST /jobs/:id/cvs
func (h *JobHandler) HandleUploadCV(c *fiber.Ctx) error {
	entry, err := h.addCandidate(c, c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleSearch handles GET /jobs/:id/search?q=
func (h *JobHandler) HandleSearch(c *fiber.Ctx) error {
	if h.index == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate search is not enabled",
		})
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	ctx := c.UserContext()
	jobID := c.Params("id")

	if _, err := h.store.GetJob(ctx, jobID); err != nil {
		return sendError(c, err)
	}

	candidates, err := h.index.Search(ctx, jobID, query, c.QueryInt("limit", defaultSearchLimit))
	if err != nil {
		log.Printf("❌ Candidate search failed for %s: %v", jobID, err)
		return sendError(c, err)
	}

	return c.JSON(models.SearchResponse{
		JobID:      jobID,
		Query:      query,
		Candidates: candidates,
	})
}

func (h *JobHandler) createJob(ctx context.Context, req models.CreateJobRequest) (*models.Job, error) {
	job, err := h.store.CreateJob(ctx, req.Title, req.Description)
	if err != nil {
		log.Printf("❌ Failed to create job: %v", err)
		return nil, err
	}

	h.metrics.RecordJobCreated()
	log.Printf("✅ Job created: %s (%s)", job.Title, job.ID)

	return job, nil
}

// addCandidate scores an uploaded CV against a job and appends it to the
// job's leaderboard.
func (h *JobHandler) addCandidate(c *fiber.Ctx, jobID string) (*models.LeaderboardEntry, error) {
	ctx := c.UserContext()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	upload, uploadErr := readCVUpload(c, h.maxFileSize)
	if uploadErr != nil {
		return nil, uploadErr
	}

	if _, _, err := h.storage.SaveFile(upload.FileName, upload.Data, "cv"); err != nil {
		log.Printf("❌ Failed to store %s: %v", upload.FileName, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to save CV file")
	}

	analysis, err := h.analyzer.Analyze(ctx, services.AnalyzeInput{
		JobDescription: job.Description,
		FileName:       upload.FileName,
		MimeType:       upload.MimeType,
		Data:           upload.Data,
	})
	if err != nil {
		log.Printf("❌ Failed to analyze %s for job %s: %v", upload.FileName, job.ID, err)
		return nil, err
	}

	entry := models.LeaderboardEntry{
		FileName: upload.FileName,
		Score:    analysis.Result.MatchScore,
		Summary:  analysis.Result.ProfileSummary,
	}

	if err := h.store.AppendEntry(ctx, job.ID, entry); err != nil {
		log.Printf("❌ Failed to append %s to leaderboard %s: %v", upload.FileName, job.ID, err)
		return nil, err
	}
	h.metrics.RecordLeaderboardAppend()

	if h.worker != nil {
		h.worker.EnqueueTask(services.IndexTask{
			JobID:    job.ID,
			FileName: upload.FileName,
			Text:     analysis.CVText,
		})
	}

	return &entry, nil
}
