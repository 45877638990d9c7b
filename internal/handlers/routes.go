package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"alfredoptarigan/cv-leaderboard/internal/metrics"
)

type Routes struct {
	Analyze *AnalyzeHandler
	Jobs    *JobHandler
	Pages   *PageHandler
	Metrics *metrics.Manager
}

func RegisterRoutes(app *fiber.App, r Routes) {
	api := app.Group("/api")

	api.Get("/health", HandleHealth)
	api.Post("/analyze", r.Analyze.HandleAnalyze)

	api.Get("/jobs", r.Jobs.HandleListJobs)
	api.Post("/jobs", r.Jobs.HandleCreateJob)
	api.Get("/jobs/:id", r.Jobs.HandleGetJob)
	api.Get("/jobs/:id/leaderboard", r.Jobs.HandleGetLeaderboard)
	api.Post("/jobs/:id/cvs", r.Jobs.HandleUploadCV)
	api.Get("/jobs/:id/search", r.Jobs.HandleSearch)
	api.Get("/leaderboard", r.Jobs.HandleGetLeaderboards)

	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics.Handler()))
	}

	app.Get("/", r.Pages.HandlePage)
	app.Post("/jobs", r.Pages.HandleCreateJob)
	app.Post("/jobs/:id/cvs", r.Pages.HandleUploadCV)
}

// HandleHealth handles GET /health
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now(),
	})
}
