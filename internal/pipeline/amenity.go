package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// AmenityStage parses the packed County cell of the natural amenity scale
// into separate county and state columns.
type AmenityStage struct {
	Source string
	Output string
	Logger *slog.Logger
}

func (s *AmenityStage) Name() string { return "amenity" }

func (s *AmenityStage) Run(_ context.Context) (Result, error) {
	var res Result
	raw, err := table.Load(s.Source, s.Logger)
	if err != nil {
		return res, err
	}
	res.RowsRead = raw.Len()
	if !raw.Empty() {
		if err := raw.Require(ColCounty, ColTier); err != nil {
			return res, err
		}
	}

	out := table.New(amenityColumns()...)
	for i := range raw.Rows {
		cell := raw.Get(i, ColCounty)
		county, state, ok := domain.ParseAmenityCounty(cell)
		if !ok {
			s.Logger.Warn("could not parse amenity county", "cell", cell)
			res.drop("unparsed_county")
			continue
		}
		tier, ok := raw.Float(i, ColTier)
		if !ok {
			res.drop("missing_tier")
			continue
		}
		rank, _ := raw.Float(i, ColRank)
		out.Append(amenityRow(domain.AmenityRecord{
			CountyRaw: cell,
			StateRaw:  raw.Get(i, ColState),
			County:    county,
			State:     state,
			Tier:      tier,
			Rank:      rank,
		})...)
	}

	if err := table.Save(s.Output, out); err != nil {
		return res, err
	}
	res.RowsWritten = out.Len()
	res.Outputs = []string{s.Output}
	return res, nil
}

// LoadAmenities reads the cleaned amenity reference. A missing file yields
// no records.
func LoadAmenities(path string, logger *slog.Logger) ([]domain.AmenityRecord, error) {
	t, err := table.Load(path, logger)
	if err != nil {
		return nil, err
	}
	return readAmenities(t), nil
}
