package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hostel-analytics/models"
)

func testSeries() models.TimeSeries {
	return models.TimeSeries{
		{
			Label: "1 Jan 2024 - 7 Jan 2024",
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Properties: map[string]models.PropertyPeriodSummary{
				"Puerto":   {Count: 1, Valid: 1, ADR: 40, AvgLeadTime: 3},
				"Flamingo": {Count: 2, Cancelled: 1, Valid: 1, ADR: 25.5, AvgLeadTime: 10},
			},
		},
		{
			Label: "8 Jan 2024 - 14 Jan 2024",
			Start: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			Properties: map[string]models.PropertyPeriodSummary{
				"Flamingo": {Count: 0},
			},
		},
	}
}

func TestFlattenOrder(t *testing.T) {
	rows := Flatten(testSeries())
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	want := []struct{ start, end, property string }{
		{"2024-01-01", "2024-01-07", "Flamingo"},
		{"2024-01-01", "2024-01-07", "Puerto"},
		{"2024-01-08", "2024-01-14", "Flamingo"},
	}
	for i, w := range want {
		if rows[i].PeriodStart != w.start || rows[i].PeriodEnd != w.end || rows[i].Property != w.property {
			t.Errorf("row %d: got %+v, want %+v", i, rows[i], w)
		}
	}
}

func TestCSVWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "series.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	defer w.Close()

	// Second write replaces the first.
	if err := w.Write(context.Background(), models.TimeSeries{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(context.Background(), testSeries()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3", len(records))
	}
	if records[0][0] != "period_start" {
		t.Errorf("header: got %v", records[0])
	}

	first := records[1]
	if first[3] != "Flamingo" || first[4] != "2" || first[5] != "1" || first[7] != "25.50" || first[8] != "10" {
		t.Errorf("first row: got %v", first)
	}
}

func TestCSVWriterCancelled(t *testing.T) {
	w, err := NewCSVWriter(filepath.Join(t.TempDir(), "series.csv"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Write(ctx, testSeries()); err == nil {
		t.Error("expected error for cancelled context")
	}
}
