package observability

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestMetricsWithRegistry(t *testing.T) {
	m, reg := NewMetricsWithRegistry()

	m.RowsRead.WithLabelValues("queue").Add(4)
	m.GeocodeCache.WithLabelValues("hit").Inc()

	assert.InDelta(t, 4, testutil.ToFloat64(m.RowsRead.WithLabelValues("queue")), 0)
	n, err := testutil.GatherAndCount(reg, "interconnect_rows_read_total", "interconnect_geocode_cache_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.prom")

	require.NoError(t, WriteTextfile(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
