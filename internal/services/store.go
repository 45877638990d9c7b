package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/cv-leaderboard/internal/models"
	"alfredoptarigan/cv-leaderboard/internal/repositories"
)

const (
	jobsKey        = "jobs"
	leaderboardKey = "leaderboard"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrInvalidJob  = errors.New("job title and description are required")
)

// StateStore owns jobs and leaderboards. Each collection lives under one key
// and is re-serialized whole on every write.
type StateStore interface {
	CreateJob(ctx context.Context, title, description string) (*models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	Leaderboard(ctx context.Context, jobID string) ([]models.LeaderboardEntry, error)
	Leaderboards(ctx context.Context) (models.Leaderboard, error)
	AppendEntry(ctx context.Context, jobID string, entry models.LeaderboardEntry) error
}

type stateStore struct {
	repo repositories.KeyValueRepository
	// mu serializes read-modify-write cycles within this process. Writers in
	// other processes sharing the backend still race; last writer wins.
	mu sync.Mutex
}

func NewStateStore(repo repositories.KeyValueRepository) StateStore {
	return &stateStore{repo: repo}
}

// CreateJob implements StateStore. Ids are UUIDv7 and therefore time ordered.
func (s *stateStore) CreateJob(ctx context.Context, title, description string) (*models.Job, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, ErrInvalidJob
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job id: %w", err)
	}

	job := models.Job{
		ID:          id.String(),
		Title:       title,
		Description: description,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jobs, err := s.loadJobs(ctx)
	if err != nil {
		return nil, err
	}

	jobs = append(jobs, job)
	if err := s.save(ctx, jobsKey, jobs); err != nil {
		return nil, err
	}

	return &job, nil
}

// ListJobs implements StateStore.
func (s *stateStore) ListJobs(ctx context.Context) ([]models.Job, error) {
	return s.loadJobs(ctx)
}

// GetJob implements StateStore.
func (s *stateStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	jobs, err := s.loadJobs(ctx)
	if err != nil {
		return nil, err
	}

	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
}

// Leaderboard implements StateStore.
func (s *stateStore) Leaderboard(ctx context.Context, jobID string) ([]models.LeaderboardEntry, error) {
	board, err := s.loadLeaderboard(ctx)
	if err != nil {
		return nil, err
	}

	entries := board[jobID]
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, nil
}

// Leaderboards implements StateStore.
func (s *stateStore) Leaderboards(ctx context.Context) (models.Leaderboard, error) {
	return s.loadLeaderboard(ctx)
}

// AppendEntry implements StateStore.
func (s *stateStore) AppendEntry(ctx context.Context, jobID string, entry models.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetJob(ctx, jobID); err != nil {
		return err
	}

	board, err := s.loadLeaderboard(ctx)
	if err != nil {
		return err
	}

	board[jobID] = append(board[jobID], entry)
	return s.save(ctx, leaderboardKey, board)
}

func (s *stateStore) loadJobs(ctx context.Context) ([]models.Job, error) {
	jobs := []models.Job{}
	if err := s.load(ctx, jobsKey, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

func (s *stateStore) loadLeaderboard(ctx context.Context) (models.Leaderboard, error) {
	board := models.Leaderboard{}
	if err := s.load(ctx, leaderboardKey, &board); err != nil {
		return nil, err
	}
	if board == nil {
		board = models.Leaderboard{}
	}
	return board, nil
}

// load leaves target untouched when the key has never been written.
func (s *stateStore) load(ctx context.Context, key string, target any) error {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return nil
}

func (s *stateStore) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := s.repo.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}
