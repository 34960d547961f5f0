package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// GeoJSONStage turns located projects into a FeatureCollection of points
// for the map. Rows without coordinates are skipped.
type GeoJSONStage struct {
	Source string
	Output string
	Logger *slog.Logger
}

func (s *GeoJSONStage) Name() string { return "geojson" }

func (s *GeoJSONStage) Run(_ context.Context) (Result, error) {
	var res Result
	t, err := table.Load(s.Source, s.Logger)
	if err != nil {
		return res, err
	}
	res.RowsRead = t.Len()
	if !t.Empty() {
		if err := t.Require(ColLocations); err != nil {
			return res, err
		}
	}

	features := make([]domain.Feature, 0, t.Len())
	for i := range t.Rows {
		f, err := domain.NewFeature(domain.ProjectLocation{
			ProjectName:             t.Get(i, ColProjectName),
			County:                  t.Get(i, ColCounty),
			State:                   t.Get(i, ColState),
			DeveloperName:           t.Get(i, ColDeveloper),
			PointsOfInterconnection: t.Get(i, ColInterconnects),
			Locations:               t.Get(i, ColLocations),
		})
		if err != nil {
			s.Logger.Warn("skipping project without coordinates",
				"project", t.Get(i, ColProjectName), "error", err)
			if errors.Is(err, domain.ErrNoCoordinates) {
				res.drop("no_coordinates")
			} else {
				res.drop("bad_coordinates")
			}
			continue
		}
		features = append(features, f)
	}

	if err := WriteGeoJSON(s.Output, domain.NewFeatureCollection(features)); err != nil {
		return res, err
	}
	res.RowsWritten = len(features)
	res.Outputs = []string{s.Output}
	return res, nil
}

// WriteGeoJSON writes fc to path indented by two spaces, leaving non-ASCII
// and HTML characters unescaped.
func WriteGeoJSON(path string, fc domain.FeatureCollection) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
