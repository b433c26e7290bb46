package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-monitor-backend/config"
	"store-monitor-backend/internal/jobs"
	"store-monitor-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockSubmitter registers jobs in the tracker without running them.
type mockSubmitter struct {
	tracker *jobs.Tracker
	err     error
}

func (m *mockSubmitter) Submit() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.tracker.Create().ID, nil
}

type summaryStore struct {
	store.Store
	summaries []store.StoreSummary
	err       error
}

func (s *summaryStore) StoreSummaries(ctx context.Context) ([]store.StoreSummary, error) {
	return s.summaries, s.err
}

func setupRouter(t *testing.T, s store.Store, submitErr error) (*gin.Engine, *jobs.Tracker) {
	t.Helper()
	tracker := jobs.NewTracker(time.Minute)
	h := NewHandler(s, &mockSubmitter{tracker: tracker, err: submitErr}, tracker)
	cfg := &config.ServerConfig{RateLimitPerSec: 100, RateLimitBurst: 100, CacheTTLSeconds: 60}
	return NewRouter(cfg, h), tracker
}

func do(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestTriggerReport(t *testing.T) {
	router, tracker := setupRouter(t, nil, nil)

	w := do(router, http.MethodPost, "/trigger_report")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body["report_id"])

	job, ok := tracker.Get(body["report_id"])
	require.True(t, ok)
	assert.Equal(t, jobs.StatusRunning, job.Status)
}

func TestTriggerReport_Errors(t *testing.T) {
	router, _ := setupRouter(t, nil, jobs.ErrQueueFull)
	w := do(router, http.MethodPost, "/trigger_report")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	router, _ = setupRouter(t, nil, errors.New("closed"))
	w = do(router, http.MethodPost, "/trigger_report")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to start report"}`, w.Body.String())
}

func TestGetReport(t *testing.T) {
	router, tracker := setupRouter(t, nil, nil)

	t.Run("Unknown id", func(t *testing.T) {
		w := do(router, http.MethodGet, "/get_report?report_id=does-not-exist")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Invalid report_id"}`, w.Body.String())

		w = do(router, http.MethodGet, "/get_report")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Running then complete", func(t *testing.T) {
		job := tracker.Create()
		url := "/get_report?report_id=" + job.ID

		w := do(router, http.MethodGet, url)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"Running"}`, w.Body.String())
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

		path := filepath.Join(t.TempDir(), job.ID+".csv")
		content := "store_id,uptime_last_hour,uptime_last_day,uptime_last_week,downtime_last_hour,downtime_last_day,downtime_last_week\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		tracker.Complete(job.ID, path)

		// the running response was not cached
		w = do(router, http.MethodGet, url)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, content, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), "report_"+job.ID+".csv")
	})

	t.Run("Failed job", func(t *testing.T) {
		job := tracker.Create()
		tracker.Fail(job.ID, errors.New("no status observations"))

		w := do(router, http.MethodGet, "/get_report?report_id="+job.ID)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Error: no status observations"}`, w.Body.String())
	})

	t.Run("Report file removed", func(t *testing.T) {
		job := tracker.Create()
		tracker.Complete(job.ID, filepath.Join(t.TempDir(), "gone.csv"))

		w := do(router, http.MethodGet, "/get_report?report_id="+job.ID)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetReportJob(t *testing.T) {
	router, tracker := setupRouter(t, nil, nil)
	job := tracker.Create()
	tracker.Fail(job.ID, errors.New("boom"))

	w := do(router, http.MethodGet, "/api/reports/"+job.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, job.ID, got["report_id"])
	assert.Equal(t, "Error", got["status"])
	assert.Equal(t, "boom", got["error"])
	assert.NotContains(t, got, "Path")

	w = do(router, http.MethodGet, "/api/reports/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStores(t *testing.T) {
	last := time.Date(2023, 1, 25, 18, 0, 0, 0, time.UTC)
	s := &summaryStore{summaries: []store.StoreSummary{
		{StoreID: "s1", Observations: 3, FirstSeen: last.Add(-time.Hour), LastSeen: last, Timezone: "America/Denver"},
	}}
	router, _ := setupRouter(t, s, nil)

	w := do(router, http.MethodGet, "/api/stores")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"store_id":"s1","observations":3,"first_seen":"2023-01-25T17:00:00Z","last_seen":"2023-01-25T18:00:00Z","timezone":"America/Denver"}]`, w.Body.String())

	router, _ = setupRouter(t, &summaryStore{}, nil)
	w = do(router, http.MethodGet, "/api/stores")
	assert.JSONEq(t, `[]`, w.Body.String())

	router, _ = setupRouter(t, &summaryStore{err: errors.New("db down")}, nil)
	w = do(router, http.MethodGet, "/api/stores")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
