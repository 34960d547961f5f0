package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// RecordSink receives each file's merged records, e.g. a Kafka topic.
type RecordSink interface {
	WriteRecords(ctx context.Context, source string, records []domain.MergedRecord) error
}

// MergeStage left-joins each cleaned queue CSV in Dir with the amenity
// reference and writes "merged_<name>.csv" next to it. When OpposedPath is
// set, rows in a county with an opposed project are flagged.
type MergeStage struct {
	Dir         string
	Inputs      []string
	AmenityPath string
	OpposedPath string
	Sink        RecordSink
	Logger      *slog.Logger
}

func (s *MergeStage) Name() string { return "merge" }

func (s *MergeStage) Run(ctx context.Context) (Result, error) {
	_, res, err := s.Merge(ctx)
	return res, err
}

// Merge runs the join and returns every merged file with its status.
// Inputs that are missing or empty are skipped.
func (s *MergeStage) Merge(ctx context.Context) ([]domain.LabelledFile, Result, error) {
	var res Result
	amenities, err := LoadAmenities(s.AmenityPath, s.Logger)
	if err != nil {
		return nil, res, err
	}
	if len(amenities) == 0 {
		s.Logger.Warn("amenity reference is empty, no row will have a tier", "file", s.AmenityPath)
	}

	var opposed map[domain.Key]bool
	if s.OpposedPath != "" {
		t, err := table.Load(s.OpposedPath, s.Logger)
		if err != nil {
			return nil, res, err
		}
		opposed = readOpposed(t)
	}

	var files []domain.LabelledFile
	for _, name := range s.Inputs {
		if err := ctx.Err(); err != nil {
			return nil, res, err
		}
		file, fileRes, err := s.mergeFile(ctx, name, amenities, opposed)
		res.merge(fileRes)
		if err != nil {
			return nil, res, err
		}
		if file != nil {
			files = append(files, *file)
		}
	}
	return files, res, nil
}

func (s *MergeStage) mergeFile(ctx context.Context, name string, amenities []domain.AmenityRecord, opposed map[domain.Key]bool) (*domain.LabelledFile, Result, error) {
	var res Result
	logger := s.Logger.With("file", name)

	t, err := table.Load(filepath.Join(s.Dir, name), logger)
	if err != nil {
		return nil, res, err
	}
	if t.Empty() {
		return nil, res, nil
	}
	if err := t.Require(ColCounty, ColState); err != nil {
		return nil, res, fmt.Errorf("%s: %w", name, err)
	}
	res.RowsRead = t.Len()

	status := domain.StatusFromName(name)
	merged := domain.JoinAmenities(readQueue(t, status), amenities)
	if opposed != nil {
		merged = domain.MarkOpposed(merged, opposed)
	}

	withDeveloper := t.Has(ColDeveloper)
	withOpposed := opposed != nil
	out := table.New(mergedColumns(withDeveloper, withOpposed)...)
	untiered := 0
	for _, r := range merged {
		if !r.HasTier {
			untiered++
		}
		out.Append(mergedRow(r, withDeveloper, withOpposed)...)
	}

	saveName := "merged_" + name
	if err := table.Save(filepath.Join(s.Dir, saveName), out); err != nil {
		return nil, res, err
	}
	logger.Info("merged with amenities", "output", saveName, "rows", out.Len(), "without_tier", untiered)
	res.RowsWritten = out.Len()
	res.Outputs = []string{saveName}

	if s.Sink != nil {
		if err := s.Sink.WriteRecords(ctx, saveName, merged); err != nil {
			return nil, res, fmt.Errorf("publish merged records: %w", err)
		}
	}
	return &domain.LabelledFile{Name: saveName, Status: status, Records: merged}, res, nil
}
