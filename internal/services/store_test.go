package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-leaderboard/internal/models"
	"alfredoptarigan/cv-leaderboard/internal/repositories"
)

func TestStateStoreCreateJobRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore(repositories.NewMemoryKVRepository())

	created, err := store.CreateJob(ctx, "Backend Engineer", "Senior backend engineer, 5y Go experience")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := store.GetJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *fetched)
	assert.Equal(t, "Backend Engineer", fetched.Title)
	assert.Equal(t, "Senior backend engineer, 5y Go experience", fetched.Description)
}

func TestStateStoreListJobsKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore(repositories.NewMemoryKVRepository())

	jobs, err := store.ListJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	first, err := store.CreateJob(ctx, "First", "one")
	require.NoError(t, err)
	second, err := store.CreateJob(ctx, "Second", "two")
	require.NoError(t, err)

	jobs, err = store.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, first.ID, jobs[0].ID)
	assert.Equal(t, second.ID, jobs[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestStateStoreCreateJobValidation(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore(repositories.NewMemoryKVRepository())

	_, err := store.CreateJob(ctx, "  ", "desc")
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = store.CreateJob(ctx, "Title", "")
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestStateStoreGetUnknownJob(t *testing.T) {
	store := NewStateStore(repositories.NewMemoryKVRepository())

	_, err := store.GetJob(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStateStoreAppendIsMonotonic(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore(repositories.NewMemoryKVRepository())

	job, err := store.CreateJob(ctx, "Backend", "Go")
	require.NoError(t, err)
	other, err := store.CreateJob(ctx, "Frontend", "React")
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, store.AppendEntry(ctx, job.ID, models.LeaderboardEntry{
			FileName: fmt.Sprintf("cv-%d.pdf", i),
			Score:    i * 10,
			Summary:  fmt.Sprintf("summary %d", i),
		}))
	}
	require.NoError(t, store.AppendEntry(ctx, other.ID, models.LeaderboardEntry{FileName: "x.docx"}))

	entries, err := store.Leaderboard(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, entries, n)
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("cv-%d.pdf", i), entry.FileName)
		assert.Equal(t, i*10, entry.Score)
	}

	all, err := store.Leaderboards(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Len(t, all[other.ID], 1)
}

func TestStateStoreAppendUnknownJob(t *testing.T) {
	store := NewStateStore(repositories.NewMemoryKVRepository())

	err := store.AppendEntry(context.Background(), "missing", models.LeaderboardEntry{FileName: "a.pdf"})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStateStoreEmptyLeaderboard(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore(repositories.NewMemoryKVRepository())

	job, err := store.CreateJob(ctx, "Backend", "Go")
	require.NoError(t, err)

	entries, err := store.Leaderboard(ctx, job.ID)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestStateStoreConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore(repositories.NewMemoryKVRepository())

	job, err := store.CreateJob(ctx, "Backend", "Go")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.AppendEntry(ctx, job.ID, models.LeaderboardEntry{FileName: fmt.Sprintf("%d.pdf", i)}))
		}(i)
	}
	wg.Wait()

	entries, err := store.Leaderboard(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestStateStorePersistsWholeCollections(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryKVRepository()
	store := NewStateStore(repo)

	job, err := store.CreateJob(ctx, "Backend", "Go")
	require.NoError(t, err)
	require.NoError(t, store.AppendEntry(ctx, job.ID, models.LeaderboardEntry{FileName: "a.pdf", Score: 85, Summary: "Good."}))

	rawJobs, err := repo.Get(ctx, "jobs")
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%q,"title":"Backend","description":"Go"}]`, job.ID), string(rawJobs))

	rawBoard, err := repo.Get(ctx, "leaderboard")
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`{%q:[{"fileName":"a.pdf","score":85,"summary":"Good."}]}`, job.ID), string(rawBoard))

	reopened := NewStateStore(repo)
	entries, err := reopened.Leaderboard(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
