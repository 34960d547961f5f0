package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "training"), cfg.TrainingDir)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, GeocoderNominatim, cfg.Geocoder)
	assert.Equal(t, 5*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Equal(t, "interconnectionGEOJSON", cfg.MapboxTileset)
	assert.Equal(t, "Updated_Interconnection", cfg.MapboxUploadName)
	assert.Equal(t, 30*time.Minute, cfg.CredentialsMaxAge)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "merged-queue-records", cfg.KafkaTopic)
	assert.Zero(t, cfg.ShuffleSeed)
	assert.False(t, cfg.Equalize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/data")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("GEOCODER", GeocoderMapbox)
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("GEOCODE_TIMEOUT", "10s")
	t.Setenv("GEOCODE_CACHE_SIZE", "500")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092,")
	t.Setenv("SHUFFLE_SEED", "42")
	t.Setenv("EQUALIZE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, "/srv/data/training", cfg.TrainingDir)
	assert.Equal(t, "/srv/data/locs.csv", cfg.DataPath("locs.csv"))
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, GeocoderMapbox, cfg.Geocoder)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 500, cfg.GeocodeCacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, uint64(42), cfg.ShuffleSeed)
	assert.True(t, cfg.Equalize)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration", "SHUTDOWN_TIMEOUT"},
		{"GEOCODE_TIMEOUT", "-1s", "GEOCODE_TIMEOUT"},
		{"CREDENTIALS_MAX_AGE", "soon", "CREDENTIALS_MAX_AGE"},
		{"GEOCODE_CACHE_SIZE", "0", "GEOCODE_CACHE_SIZE"},
		{"SHUFFLE_SEED", "-3", "SHUFFLE_SEED"},
		{"EQUALIZE", "maybe", "EQUALIZE"},
		{"GEOCODER", "google", "GEOCODER"},
		{"LOG_FORMAT", "xml", "LOG_FORMAT"},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MapboxRequiresToken(t *testing.T) {
	t.Setenv("GEOCODER", GeocoderMapbox)
	t.Setenv("MAPBOX_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=warn\nMAPBOX_TILESET=fromDotenv\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("LOG_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("MAPBOX_TILESET") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "fromDotenv", cfg.MapboxTileset)
}
