package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// LocateStage geocodes every "County, State" in the locations table and
// stores the coordinates as "[lon, lat]". An existing output file is a
// whole-file cache: it is loaded as is and no lookups are made.
type LocateStage struct {
	Source   string
	Output   string
	Geocoder domain.Geocoder
	Logger   *slog.Logger
}

func (s *LocateStage) Name() string { return "locate" }

func (s *LocateStage) Run(ctx context.Context) (Result, error) {
	var res Result
	if table.Exists(s.Output) {
		cached, err := table.Load(s.Output, s.Logger)
		if err != nil {
			return res, err
		}
		s.Logger.Info("locations already geocoded, skipping lookups", "file", s.Output, "rows", cached.Len())
		res.RowsRead = cached.Len()
		return res, nil
	}

	t, err := table.Load(s.Source, s.Logger)
	if err != nil {
		return res, err
	}
	res.RowsRead = t.Len()
	if !t.Empty() {
		if err := t.Require(ColCounty, ColState); err != nil {
			return res, err
		}
	}

	t.AddColumn(ColMerged)
	t.AddColumn(ColLocations)

	// Each unique query is looked up once per run.
	located := make(map[domain.Key]string)
	missing := 0
	for i := range t.Rows {
		key := domain.Key{County: t.Get(i, ColCounty), State: t.Get(i, ColState)}
		t.Set(i, ColMerged, key.String())

		coords, seen := located[key]
		if !seen {
			rec, err := domain.LocateCounty(ctx, key, s.Geocoder, s.Logger)
			if err != nil {
				return res, err
			}
			coords = domain.FormatCoordinates(rec.Point)
			located[key] = coords
		}
		if coords == "" {
			missing++
		}
		t.Set(i, ColLocations, coords)
	}

	if err := table.Save(s.Output, t); err != nil {
		return res, err
	}
	s.Logger.Info("locations geocoded", "unique_queries", len(located), "missing", missing)
	res.RowsWritten = t.Len()
	res.Outputs = []string{s.Output}
	return res, nil
}
