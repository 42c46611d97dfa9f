package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rental-analytics/models"
)

// CSVWriter exports a report as one CSV file per aggregate inside a
// directory. It is safe for concurrent use.
type CSVWriter struct {
	mu  sync.Mutex
	dir string
}

// NewCSVWriter creates the output directory if needed.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{dir: dir}, nil
}

// Write (re)creates every aggregate file, truncating previous snapshots.
// Null values are written as empty fields.
func (c *CSVWriter) Write(report *models.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range reportTables(report) {
		if err := c.writeTable(t); err != nil {
			return err
		}
	}
	return nil
}

func (c *CSVWriter) writeTable(t table) error {
	path := filepath.Join(c.dir, t.name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}
	return f.Close()
}

// Dir returns the directory the files are written to.
func (c *CSVWriter) Dir() string {
	return c.dir
}

// Close is a no-op; files are closed after every Write.
func (c *CSVWriter) Close() error {
	return nil
}
