package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsnotes/ingest"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_PublishReport(t *testing.T) {
	r := NewRecorder()
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, r.PublishReport(context.Background(), &ingest.Report{
		Mode: ingest.ModeReplace, Succeeded: true,
		StartedAt: start, FinishedAt: start.Add(2 * time.Second),
		CandidatesSeen: 5, Created: 4, Failed: 1, FieldMisses: 2,
	}))
	require.NoError(t, r.PublishReport(context.Background(), &ingest.Report{
		Mode: ingest.ModeReplace, Stage: ingest.StageFetch,
		StartedAt: start, FinishedAt: start.Add(time.Second),
	}))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("replace", "success", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("replace", "failure", "fetch")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.recordsTotal.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.recordsTotal.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.fieldMisses))
	assert.Equal(t, float64(start.Add(2*time.Second).Unix()), testutil.ToFloat64(r.lastSuccessAt))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.PublishReport(context.Background(), &ingest.Report{Mode: ingest.ModeReconcile, Succeeded: true}))

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `newsnotes_ingest_runs_total{mode="reconcile",outcome="success",stage=""} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
