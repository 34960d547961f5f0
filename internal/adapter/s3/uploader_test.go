package s3

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
)

var testCreds = domain.UploadCredentials{
	Bucket:          "staging",
	Key:             "_pending/analyst/abc",
	AccessKeyID:     "AKIA",
	SecretAccessKey: "shh",
	SessionToken:    "tok",
}

func TestUploadFile(t *testing.T) {
	var (
		mu      sync.Mutex
		gotPath string
		gotBody []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "tok", r.Header.Get("X-Amz-Security-Token"))
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "interconnection.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"features":[],"type":"FeatureCollection"}`), 0o600))

	metrics := observability.NewMetricsForTesting()
	u := NewUploader("us-east-1", srv.URL, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := u.UploadFile(context.Background(), path, testCreds)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/staging/_pending/analyst/abc", gotPath)
	assert.JSONEq(t, `{"features":[],"type":"FeatureCollection"}`, string(gotBody))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UploadRequests.WithLabelValues("s3", "success")), 0)
}

func TestUploadFile_MissingFile(t *testing.T) {
	u := NewUploader("us-east-1", "http://127.0.0.1:1", observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := u.UploadFile(context.Background(), filepath.Join(t.TempDir(), "absent.geojson"), testCreds)
	assert.Error(t, err)
}
