package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/interconnection-etl/internal/adapter/excel"
	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// BryceStage fills in the County of each opposed wind project from its
// free-text Entity and Government fields and expands the state code. All
// source columns are kept; rows whose county cannot be found keep a blank
// County.
type BryceStage struct {
	Source string
	Output string
	Logger *slog.Logger
}

func (s *BryceStage) Name() string { return "bryce" }

func (s *BryceStage) Run(_ context.Context) (Result, error) {
	var res Result
	t, err := excel.Load(s.Source, s.Logger)
	if err != nil {
		return res, err
	}
	res.RowsRead = t.Len()
	if !t.Empty() {
		if err := t.Require(ColEntity, ColGovernment, ColState); err != nil {
			return res, err
		}
	}

	t.AddColumn(ColCounty)
	t.AddColumn(ColState)
	unresolved := 0
	for i := range t.Rows {
		p := domain.NormalizeOpposedProject(domain.OpposedProject{
			Entity:     t.Get(i, ColEntity),
			Government: t.Get(i, ColGovernment),
			State:      t.Get(i, ColState),
		})
		if p.County == "" {
			unresolved++
		}
		t.Set(i, ColCounty, p.County)
		t.Set(i, ColState, p.State)
	}
	if unresolved > 0 {
		s.Logger.Warn("opposed projects without a county", "count", unresolved)
	}

	if err := table.Save(s.Output, t); err != nil {
		return res, err
	}
	res.RowsWritten = t.Len()
	res.Outputs = []string{s.Output}
	return res, nil
}
