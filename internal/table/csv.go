package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// ReadCSV parses a CSV with a header row. A leading unnamed column is taken
// to be a row index and dropped.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return New(), nil
	}

	header := records[0]
	skip := 0
	if len(header) > 0 && header[0] == "" {
		skip = 1
	}
	t := New(header[skip:]...)
	for _, rec := range records[1:] {
		if len(rec) < skip {
			continue
		}
		t.Append(rec[skip:]...)
	}
	return t, nil
}

// WriteCSV writes t with a leading unnamed index column numbered from 0.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, t.Columns...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(append([]string{strconv.Itoa(i)}, row...)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads the CSV at path. A missing file is not an error: it is logged
// and an empty table is returned.
func Load(path string, logger *slog.Logger) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("input file not found", "file", path)
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("loaded table", "file", path, "rows", t.Len(), "columns", len(t.Columns))
	return t, nil
}

// Save writes t to path, creating parent directories as needed.
func Save(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
