// Package excel reads the first sheet of an .xlsx workbook into a table.
package excel

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// ErrNoSheets is returned for a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// Load reads the first sheet of the workbook at path. The first row is the
// header. A missing file is logged and yields an empty table. When the
// workbook has further sheets a warning names the one that was read.
func Load(path string, logger *slog.Logger) (*table.Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("input file not found", "file", path)
		return table.New(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a workbook from r.
func Read(r io.Reader, logger *slog.Logger) (*table.Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]
	if len(sheets) > 1 {
		logger.Warn("returning first sheet but more are available", "sheet", sheet, "sheets", len(sheets))
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return table.New(), nil
	}

	t := table.New(rows[0]...)
	for _, row := range rows[1:] {
		t.Append(row...)
	}
	return t, nil
}

// Write saves t as a single-sheet workbook at path.
func Write(path, sheet string, t *table.Table) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if sheet != "" && sheet != "Sheet1" {
		if err := wb.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	} else {
		sheet = "Sheet1"
	}

	sw, err := wb.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toCells(t.Columns)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row)); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return wb.SaveAs(path)
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
