package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Geocoding providers.
const (
	GeocoderNominatim = "nominatim"
	GeocoderMapbox    = "mapbox"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	DataDir      string
	TrainingDir  string
	ManifestPath string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MetricsTextfile string

	// Geocoding configuration.
	Geocoder           string
	NominatimURL       string
	NominatimUserAgent string
	GeocodeTimeout     time.Duration
	GeocodeCacheSize   int
	MapboxToken        string

	// Tileset publishing.
	MapboxSecretToken  string
	MapboxUsername     string
	MapboxTileset      string
	MapboxUploadName   string
	MapboxAPIURL       string
	CredentialsEnvFile string
	CredentialsMaxAge  time.Duration
	AWSRegion          string
	S3Endpoint         string

	// Optional Kafka sink for merged records; disabled when no brokers are set.
	KafkaBrokers []string
	KafkaTopic   string

	// Model preparation.
	ShuffleSeed uint64
	Equalize    bool
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first; it never overrides
// variables already set in the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	credMaxAge, err := parseDuration("CREDENTIALS_MAX_AGE", "30m")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	seed, err := parseUint("SHUFFLE_SEED")
	if err != nil {
		return nil, err
	}
	equalize, err := parseBool("EQUALIZE")
	if err != nil {
		return nil, err
	}

	dataDir := sharedcfg.EnvOrDefault("DATA_DIR", "data")
	cfg := &Config{
		DataDir:         dataDir,
		TrainingDir:     sharedcfg.EnvOrDefault("TRAINING_DIR", filepath.Join(dataDir, "training")),
		ManifestPath:    os.Getenv("MANIFEST_PATH"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		Geocoder:           sharedcfg.EnvOrDefault("GEOCODER", GeocoderNominatim),
		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "interconnection-etl"),
		GeocodeTimeout:     geocodeTimeout,
		GeocodeCacheSize:   cacheSize,
		MapboxToken:        os.Getenv("MAPBOX_TOKEN"),

		MapboxSecretToken:  os.Getenv("MAPBOX_SECRET_ACCESS_TOKEN"),
		MapboxUsername:     os.Getenv("MAPBOX_USERNAME"),
		MapboxTileset:      sharedcfg.EnvOrDefault("MAPBOX_TILESET", "interconnectionGEOJSON"),
		MapboxUploadName:   sharedcfg.EnvOrDefault("MAPBOX_UPLOAD_NAME", "Updated_Interconnection"),
		MapboxAPIURL:       sharedcfg.EnvOrDefault("MAPBOX_API_URL", "https://api.mapbox.com"),
		CredentialsEnvFile: sharedcfg.EnvOrDefault("CREDENTIALS_ENV_FILE", ".env"),
		CredentialsMaxAge:  credMaxAge,
		AWSRegion:          sharedcfg.EnvOrDefault("AWS_REGION", "us-east-1"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),

		KafkaBrokers: sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "merged-queue-records"),

		ShuffleSeed: seed,
		Equalize:    equalize,
	}

	switch cfg.Geocoder {
	case GeocoderNominatim:
	case GeocoderMapbox:
		if cfg.MapboxToken == "" {
			return nil, errors.New("GEOCODER is mapbox but MAPBOX_TOKEN is not set")
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q", cfg.Geocoder)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}

// KafkaEnabled reports whether merged records should also go to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// DataPath joins name onto the data directory.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.DataDir, name)
}
