package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/interconnection-etl/internal/adapter/excel"
	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// QueueStage cleans each operator's queue workbook into
// "<OPERATOR>_<status>.csv", keeping only projects of the selected fuel type.
type QueueStage struct {
	Dir              string // workbooks are read from and CSVs written to Dir
	Files            []string
	FuelType         string
	IncludeDeveloper bool
	Logger           *slog.Logger
}

func (s *QueueStage) Name() string { return "queue" }

func (s *QueueStage) Run(ctx context.Context) (Result, error) {
	var total Result
	for _, name := range s.Files {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		res, err := s.cleanFile(name)
		if err != nil {
			return total, err
		}
		total.merge(res)
	}
	return total, nil
}

func (s *QueueStage) cleanFile(name string) (Result, error) {
	var res Result
	logger := s.Logger.With("file", name)

	raw, err := excel.Load(filepath.Join(s.Dir, name), logger)
	if err != nil {
		return res, err
	}
	if raw.Empty() {
		logger.Warn("queue workbook is empty, nothing written")
		return res, nil
	}
	res.RowsRead = raw.Len()

	required := []string{ColPosition, ColType, ColCounty, ColState}
	if s.IncludeDeveloper {
		required = append(required, ColDeveloper)
	}
	if err := raw.Require(required...); err != nil {
		if errors.Is(err, table.ErrMissingColumn) {
			logger.Warn("queue workbook skipped", "error", err)
			for range raw.Rows {
				res.drop("missing_column")
			}
			return res, nil
		}
		return res, err
	}

	status := domain.StatusFromName(name)
	out := table.New(queueColumns(s.IncludeDeveloper)...)
	for i := range raw.Rows {
		if raw.Get(i, ColType) != s.FuelType {
			res.drop("fuel_type")
			continue
		}
		rec := domain.NormalizeQueueRecord(domain.QueueRecord{
			Position:      raw.Get(i, ColPosition),
			Type:          raw.Get(i, ColType),
			CountyRaw:     raw.Get(i, ColCounty),
			StateRaw:      raw.Get(i, ColState),
			Status:        status,
			DeveloperName: raw.Get(i, ColDeveloper),
		})
		out.Append(queueRow(rec, s.IncludeDeveloper)...)
	}

	if out.Empty() {
		logger.Warn("no projects of the selected fuel type, nothing written", "fuel_type", s.FuelType)
		return res, nil
	}
	saveName := domain.QueueSaveName(name)
	if err := table.Save(filepath.Join(s.Dir, saveName), out); err != nil {
		return res, err
	}
	logger.Info("queue cleaned", "output", saveName, "status", status, "rows", out.Len())
	res.RowsWritten = out.Len()
	res.Outputs = []string{saveName}
	return res, nil
}
