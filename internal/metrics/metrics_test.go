package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestManagerCounters(t *testing.T) {
	m := NewManager()

	m.RecordAnalysis(OutcomeSuccess)
	m.RecordAnalysis(OutcomeSuccess)
	m.RecordAnalysis(OutcomeUnsupported)
	m.RecordParse(ParseHeuristic)
	m.RecordLeaderboardAppend()
	m.RecordJobCreated()
	m.RecordIndexTask(false)
	m.ObserveCompletion(1500 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analyses.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues(OutcomeUnsupported)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parses.WithLabelValues(ParseHeuristic)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leaderboardAppends))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.indexTasks.WithLabelValues("error")))
}

func TestManagerHandler(t *testing.T) {
	m := NewManager(WithNamespace("test_ns"))
	m.RecordJobCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_ns_jobs_created_total 1")
}

func TestManagersDoNotShareRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewManager()
		NewManager()
	})
}
