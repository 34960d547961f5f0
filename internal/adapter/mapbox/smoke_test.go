//go:build mapbox

package mapbox

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Live checks against api.mapbox.com. They need MAPBOX_TOKEN:
//
//	go test -tags=mapbox ./internal/adapter/mapbox/ -run Smoke -count=1

func liveClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Skip("MAPBOX_TOKEN not set")
	}
	return NewClient(token, 10*time.Second, testMetrics(), discardLogger())
}

func TestSmoke_CountyCentroids(t *testing.T) {
	c := liveClient(t)

	cases := []struct {
		county, state string
		lat, lon      float64
	}{
		{"Lewis", "New York", 43.8, -75.4},
		{"Adair", "Iowa", 41.3, -94.5},
		{"Kern", "California", 35.3, -118.7},
	}
	for _, tc := range cases {
		t.Run(tc.county, func(t *testing.T) {
			result, err := c.ForwardGeocode(context.Background(), tc.county, tc.state)
			require.NoError(t, err)
			require.True(t, result.Found())
			assert.InDelta(t, tc.lat, result.Lat, 0.75)
			assert.InDelta(t, tc.lon, result.Lon, 0.75)
			assert.Contains(t, result.DisplayName, tc.state)
		})
	}
}

func TestSmoke_UnknownCountyDoesNotError(t *testing.T) {
	c := liveClient(t)
	_, err := c.ForwardGeocode(context.Background(), "Qwxzzy", "Nebraska")
	require.NoError(t, err)
}
