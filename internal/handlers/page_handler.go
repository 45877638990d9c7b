package handlers

import (
	"bytes"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-leaderboard/internal/models"
	"alfredoptarigan/cv-leaderboard/internal/view"
)

// PageHandler serves the HTML front end. It shares the job pipeline with
// the JSON API.
type PageHandler struct {
	jobs *JobHandler
}

func NewPageHandler(jobs *JobHandler) *PageHandler {
	return &PageHandler{jobs: jobs}
}

// HandlePage handles GET /
func (h *PageHandler) HandlePage(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, view.FromQuery(c.Query("job")), "")
}

// HandleCreateJob handles POST /jobs
func (h *PageHandler) HandleCreateJob(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return h.render(c, fiber.StatusBadRequest, view.Initial(), "Invalid job form")
	}

	job, err := h.jobs.createJob(c.UserContext(), req)
	if err != nil {
		e := errorResponse(err)
		return h.render(c, e.Code, view.Initial(), e.Message)
	}

	return c.Redirect(view.Initial().JobCreated(job.ID).URL(), fiber.StatusSeeOther)
}

// HandleUploadCV handles POST /jobs/:id/cvs
func (h *PageHandler) HandleUploadCV(c *fiber.Ctx) error {
	state := view.Initial().SelectJob(c.Params("id"))

	if _, err := h.jobs.addCandidate(c, state.SelectedJobID); err != nil {
		e := errorResponse(err)
		return h.render(c, e.Code, state, e.Message)
	}

	return c.Redirect(state.URL(), fiber.StatusSeeOther)
}

func (h *PageHandler) render(c *fiber.Ctx, status int, state view.State, errMsg string) error {
	ctx := c.UserContext()

	jobs, err := h.jobs.store.ListJobs(ctx)
	if err != nil {
		log.Printf("❌ Failed to load jobs for page: %v", err)
		return err
	}

	board, err := h.jobs.store.Leaderboards(ctx)
	if err != nil {
		log.Printf("❌ Failed to load leaderboards for page: %v", err)
		return err
	}

	page := view.BuildPage(state, jobs, board)
	page.Error = errMsg
	page.IndexEnabled = h.jobs.index != nil

	var buf bytes.Buffer
	if err := view.Render(&buf, page); err != nil {
		log.Printf("❌ Failed to render page: %v", err)
		return err
	}

	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
