package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/interconnection-etl/internal/adapter/envfile"
	httpadapter "github.com/couchcryptid/interconnection-etl/internal/adapter/http"
	"github.com/couchcryptid/interconnection-etl/internal/adapter/kafka"
	"github.com/couchcryptid/interconnection-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/interconnection-etl/internal/adapter/nominatim"
	"github.com/couchcryptid/interconnection-etl/internal/adapter/s3"
	"github.com/couchcryptid/interconnection-etl/internal/config"
	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
	"github.com/couchcryptid/interconnection-etl/internal/pipeline"
)

const uploadTimeout = 30 * time.Second

// app carries the configuration and shared dependencies of one command
// invocation.
type app struct {
	cfg      *config.Config
	manifest *config.Manifest
	logger   *slog.Logger
	metrics  *observability.Metrics
	runner   *pipeline.Runner

	closers []func() error
}

func newApp(manifestPath string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if manifestPath != "" {
		cfg.ManifestPath = manifestPath
	}
	manifest, err := config.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	return &app{
		cfg:      cfg,
		manifest: manifest,
		logger:   logger,
		metrics:  metrics,
		runner:   pipeline.NewRunner(logger, metrics),
	}, nil
}

// run executes stages in order. The HTTP server, when configured, lives for
// the duration of the run.
func (a *app) run(ctx context.Context, stages ...pipeline.Stage) error {
	defer a.close()

	if a.cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(a.cfg.HTTPAddr, a.runner, prometheus.DefaultGatherer, a.logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	err := a.runner.Run(ctx, stages...)

	if a.cfg.MetricsTextfile != "" {
		if werr := observability.WriteTextfile(a.cfg.MetricsTextfile); werr != nil {
			a.logger.Error("write metrics textfile", "file", a.cfg.MetricsTextfile, "error", werr)
		}
	}
	return err
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Error("close error", "error", err)
		}
	}
}

// geocoder builds the configured provider behind an LRU cache.
func (a *app) geocoder() domain.Geocoder {
	var inner domain.Geocoder
	switch a.cfg.Geocoder {
	case config.GeocoderMapbox:
		inner = mapbox.NewClient(a.cfg.MapboxToken, a.cfg.GeocodeTimeout, a.metrics, a.logger)
	default:
		inner = nominatim.NewClient(a.cfg.NominatimURL, a.cfg.NominatimUserAgent, a.cfg.GeocodeTimeout, a.metrics, a.logger)
	}
	a.logger.Info("geocoding enabled", "provider", a.cfg.Geocoder, "cache_size", a.cfg.GeocodeCacheSize, "timeout", a.cfg.GeocodeTimeout)
	return mapbox.NewCachedGeocoder(inner, a.cfg.GeocodeCacheSize, a.metrics)
}

// mergeStage wires the merge inputs from the manifest. It has no sink.
func (a *app) mergeStage() *pipeline.MergeStage {
	s := &pipeline.MergeStage{
		Dir:         a.cfg.TrainingDir,
		Inputs:      a.manifest.Merge.Inputs,
		AmenityPath: a.cfg.DataPath(a.manifest.Amenity.Output),
		Logger:      a.logger,
	}
	if a.manifest.Merge.FlagOpposed {
		s.OpposedPath = a.cfg.DataPath(a.manifest.Bryce.Output)
	}
	return s
}

// publishingMergeStage is the merge command's stage: merged records also go
// to Kafka when brokers are configured.
func (a *app) publishingMergeStage() *pipeline.MergeStage {
	s := a.mergeStage()
	if a.cfg.KafkaEnabled() {
		w := kafka.NewWriter(a.cfg.KafkaBrokers, a.cfg.KafkaTopic, a.metrics, a.logger)
		a.closers = append(a.closers, w.Close)
		s.Sink = w
		a.logger.Info("kafka sink enabled", "topic", a.cfg.KafkaTopic)
	}
	return s
}

// modelsStage re-merges the training files in memory and fits one model.
// Nothing is published.
func (a *app) modelsStage(choice, nbParams int, equalize bool, out io.Writer) *pipeline.ModelsStage {
	stage := &pipeline.ModelsStage{
		Merge:    a.mergeStage(),
		Choice:   choice,
		NBParams: nbParams,
		Equalize: equalize || a.cfg.Equalize,
		Seed:     a.cfg.ShuffleSeed,
		Out:      out,
		Logger:   a.logger,
	}
	if a.manifest.Models.ResidualPlot != "" {
		stage.PlotPath = a.cfg.DataPath(a.manifest.Models.ResidualPlot)
	}
	return stage
}

func (a *app) geojsonSource() string {
	if a.manifest.GeoJSON.Source != "" {
		return a.cfg.DataPath(a.manifest.GeoJSON.Source)
	}
	return a.cfg.DataPath(a.manifest.Locations.Output)
}

func (a *app) publishStage(overwrite bool) (*pipeline.PublishStage, error) {
	if a.cfg.MapboxSecretToken == "" {
		return nil, errors.New("MAPBOX_SECRET_ACCESS_TOKEN is required to publish")
	}
	if a.cfg.MapboxUsername == "" {
		return nil, errors.New("MAPBOX_USERNAME is required to publish")
	}
	uploads := mapbox.NewUploadsClient(a.cfg.MapboxAPIURL, a.cfg.MapboxUsername, a.cfg.MapboxSecretToken, uploadTimeout, a.metrics, a.logger)
	return &pipeline.PublishStage{
		GeoJSON:    a.cfg.DataPath(a.manifest.GeoJSON.Output),
		Tileset:    a.cfg.MapboxTileset,
		UploadName: a.cfg.MapboxUploadName,
		MaxAge:     a.cfg.CredentialsMaxAge,
		Overwrite:  overwrite,
		Cache:      envfile.NewStore(a.cfg.CredentialsEnvFile),
		Issuer:     uploads,
		Uploader:   s3.NewUploader(a.cfg.AWSRegion, a.cfg.S3Endpoint, a.metrics, a.logger),
		Publisher:  uploads,
		Logger:     a.logger,
	}, nil
}
