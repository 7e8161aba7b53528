package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"hostel-analytics/models"
)

var csvHeader = []string{
	"period_start", "period_end", "week", "property",
	"count", "cancelled", "valid", "adr", "avg_lead_time",
}

// CSVWriter exports the time series to a CSV file, one row per period and property.
// It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	path string
}

// NewCSVWriter prepares the CSV export at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{path: path}, nil
}

// Write truncates the file and writes the header plus every series row.
func (c *CSVWriter) Write(ctx context.Context, series models.TimeSeries) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, r := range Flatten(series) {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := []string{
			r.PeriodStart,
			r.PeriodEnd,
			r.Week,
			r.Property,
			strconv.Itoa(r.Count),
			strconv.Itoa(r.Cancelled),
			strconv.Itoa(r.Valid),
			strconv.FormatFloat(r.ADR, 'f', 2, 64),
			strconv.Itoa(r.AvgLeadTime),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// Close is a no-op; each Write opens and closes the file itself.
func (c *CSVWriter) Close() error {
	return nil
}
