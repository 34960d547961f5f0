package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/interconnection-etl/internal/observability"
	"github.com/couchcryptid/interconnection-etl/internal/pipeline"
)

// --- mocks ---

type mockStage struct {
	name   string
	result pipeline.Result
	err    error
	calls  int
}

func (m *mockStage) Name() string { return m.name }

func (m *mockStage) Run(_ context.Context) (pipeline.Result, error) {
	m.calls++
	return m.result, m.err
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

// --- tests ---

func TestRunner_Run_HappyPath(t *testing.T) {
	metrics := newTestMetrics()
	r := pipeline.NewRunner(observability.DiscardLogger(), metrics)
	stage := &mockStage{name: "queue", result: pipeline.Result{
		RowsRead:    10,
		RowsWritten: 7,
		Dropped:     map[string]int{"fuel_type": 3},
		Outputs:     []string{"NYISO_active.csv"},
	}}

	require.Error(t, r.CheckReadiness(context.Background()))
	require.NoError(t, r.Run(context.Background(), stage))

	assert.Equal(t, 1, stage.calls)
	require.NoError(t, r.CheckReadiness(context.Background()))
	assert.InDelta(t, 10, testutil.ToFloat64(metrics.RowsRead.WithLabelValues("queue")), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(metrics.RowsWritten.WithLabelValues("queue")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RowsDropped.WithLabelValues("queue", "fuel_type")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.StageRunning.WithLabelValues("queue")), 0)

	history, ok := r.Status().([]pipeline.RunRecord)
	require.True(t, ok)
	require.Len(t, history, 1)
	assert.Equal(t, "queue", history[0].Stage)
	assert.Equal(t, 7, history[0].Result.RowsWritten)
	assert.Empty(t, history[0].Error)
}

func TestRunner_Run_StopsAtFirstError(t *testing.T) {
	metrics := newTestMetrics()
	r := pipeline.NewRunner(observability.DiscardLogger(), metrics)
	failing := &mockStage{name: "amenity", err: errors.New("boom")}
	next := &mockStage{name: "merge"}

	err := r.Run(context.Background(), failing, next)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amenity: boom")
	assert.Equal(t, 0, next.calls)
	assert.Error(t, r.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.StageErrors.WithLabelValues("amenity")), 0)

	history := r.Status().([]pipeline.RunRecord)
	require.Len(t, history, 1)
	assert.Equal(t, "boom", history[0].Error)
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	r := pipeline.NewRunner(observability.DiscardLogger(), newTestMetrics())
	stage := &mockStage{name: "locate"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := r.Run(ctx, stage)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stage.calls)
}
