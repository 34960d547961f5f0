package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/interconnection-etl/internal/adapter/http"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
	"github.com/couchcryptid/interconnection-etl/internal/pipeline"
)

type stubStage struct {
	name string
	err  error
}

func (s stubStage) Name() string { return s.name }

func (s stubStage) Run(context.Context) (pipeline.Result, error) {
	return pipeline.Result{RowsRead: 12, RowsWritten: 9, Dropped: map[string]int{"fuel_type": 3}}, s.err
}

// newServer returns a server over a real runner whose metrics live in a
// private registry.
func newServer(t *testing.T) (*httpadapter.Server, *pipeline.Runner) {
	t.Helper()
	metrics, reg := observability.NewMetricsWithRegistry()
	runner := pipeline.NewRunner(observability.DiscardLogger(), metrics)
	return httpadapter.NewServer(":0", runner, reg, observability.DiscardLogger()), runner
}

func get(srv http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t)
	rec := get(srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestReadyz_WaitsForFirstStage(t *testing.T) {
	srv, runner := newServer(t)

	rec := get(srv, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no stage has completed yet", body["error"])

	require.NoError(t, runner.Run(context.Background(), stubStage{name: "queue"}))

	rec = get(srv, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestStatus_ReportsStageHistory(t *testing.T) {
	srv, runner := newServer(t)
	require.Error(t, runner.Run(context.Background(), stubStage{name: "amenity", err: errors.New("bad header")}))

	rec := get(srv, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Ready  bool                 `json:"ready"`
		Stages []pipeline.RunRecord `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Ready)
	require.Len(t, body.Stages, 1)
	assert.Equal(t, "amenity", body.Stages[0].Stage)
	assert.Equal(t, "bad header", body.Stages[0].Error)
	assert.Equal(t, 9, body.Stages[0].Result.RowsWritten)
}

func TestMetrics_ServesStageCounters(t *testing.T) {
	srv, runner := newServer(t)
	require.NoError(t, runner.Run(context.Background(), stubStage{name: "queue"}))

	rec := get(srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `stage="queue"`)
	assert.Contains(t, rec.Body.String(), `reason="fuel_type"`)
}

func TestMetrics_DefaultGatherer(t *testing.T) {
	srv := httpadapter.NewServer(":0", stubMonitor{}, prometheus.DefaultGatherer, observability.DiscardLogger())
	rec := get(srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestUnknownMethodIsRejected(t *testing.T) {
	srv, _ := newServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type stubMonitor struct{}

func (stubMonitor) CheckReadiness(context.Context) error { return nil }
func (stubMonitor) Status() any                          { return []string{} }
