package view

import (
	"embed"
	"html/template"
	"io"

	"alfredoptarigan/cv-leaderboard/internal/models"
)

const previewRunes = 30

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type JobCard struct {
	ID      string
	Title   string
	Preview string
	Active  bool
}

type Page struct {
	State        State
	Jobs         []JobCard
	Selected     *models.Job
	Entries      []models.LeaderboardEntry
	Error        string
	IndexEnabled bool
}

// IsDetail is a template helper.
func (p Page) IsDetail() bool {
	return p.State.Mode == ModeJobDetail && p.Selected != nil
}

// BuildPage resolves state against the known jobs and assembles the view.
func BuildPage(state State, jobs []models.Job, board models.Leaderboard) Page {
	state = state.Resolve(jobs)

	page := Page{State: state}
	for i := range jobs {
		job := jobs[i]
		active := state.Mode == ModeJobDetail && job.ID == state.SelectedJobID
		page.Jobs = append(page.Jobs, JobCard{
			ID:      job.ID,
			Title:   job.Title,
			Preview: Preview(job.Description),
			Active:  active,
		})
		if active {
			page.Selected = &job
			page.Entries = board[job.ID]
		}
	}

	return page
}

// Preview is the sidebar teaser for a description.
func Preview(description string) string {
	runes := []rune(description)
	if len(runes) > previewRunes {
		runes = runes[:previewRunes]
	}
	return string(runes) + "..."
}

func Render(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}
