// Package view holds the single page's state machine and its HTML rendering.
package view

import (
	"net/url"

	"alfredoptarigan/cv-leaderboard/internal/models"
)

type Mode int

const (
	// ModeCreateJob shows the job creation form; no job is selected.
	ModeCreateJob Mode = iota
	// ModeJobDetail shows the selected job, the CV drop zone and its leaderboard.
	ModeJobDetail
)

// State is the whole view state. Transitions return a new value.
type State struct {
	Mode          Mode
	SelectedJobID string
}

func Initial() State {
	return State{Mode: ModeCreateJob}
}

// FromQuery restores state from the ?job= parameter.
func FromQuery(jobID string) State {
	if jobID == "" {
		return Initial()
	}
	return Initial().SelectJob(jobID)
}

func (s State) SelectJob(id string) State {
	if id == "" {
		return s.NewJob()
	}
	return State{Mode: ModeJobDetail, SelectedJobID: id}
}

func (s State) NewJob() State {
	return Initial()
}

// JobCreated selects the job that was just saved.
func (s State) JobCreated(id string) State {
	return s.SelectJob(id)
}

// Resolve drops a selection that does not name a known job.
func (s State) Resolve(jobs []models.Job) State {
	if s.Mode != ModeJobDetail {
		return s
	}
	for _, job := range jobs {
		if job.ID == s.SelectedJobID {
			return s
		}
	}
	return s.NewJob()
}

// URL is the page location that reproduces this state.
func (s State) URL() string {
	if s.Mode != ModeJobDetail {
		return "/"
	}
	return "/?job=" + url.QueryEscape(s.SelectedJobID)
}
