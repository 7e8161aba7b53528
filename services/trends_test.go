package services

import (
	"bytes"
	"strings"
	"testing"

	"hostel-analytics/models"
)

func seriesOf(counts ...map[string]int) models.TimeSeries {
	var series models.TimeSeries
	for i, c := range counts {
		summaries := make(map[string]models.PropertyPeriodSummary, len(c))
		for name, n := range c {
			summaries[name] = models.PropertyPeriodSummary{Count: n, Valid: n, ADR: 20}
		}
		series = MergeBatch(series, CalculatePeriod(date(2024, 1, 1+7*i)), summaries)
	}
	return series
}

func TestProgressiveChange(t *testing.T) {
	series := seriesOf(
		map[string]int{"Flamingo": 0, "Puerto": 4, "Arena": 3},
		map[string]int{"Flamingo": 3, "Puerto": 2, "Arena": 4},
		map[string]int{"Puerto": 2},
	)

	tests := []struct {
		idx      int
		property string
		want     Change
	}{
		{0, "Flamingo", Change{IsNew: true}},
		{1, "Flamingo", Change{Change: 3, Percentage: 100}},
		{1, "Puerto", Change{Change: -2, Percentage: -50}},
		{1, "Arena", Change{Change: 1, Percentage: 33}},
		{2, "Puerto", Change{Change: 0, Percentage: 0}},
		{2, "Arena", Change{Change: -4, Percentage: -100}},
		{2, "Cisne", Change{Change: 0, Percentage: 0}},
		{9, "Puerto", Change{IsNew: true}},
	}

	for _, tt := range tests {
		if got := ProgressiveChange(series, tt.idx, tt.property); got != tt.want {
			t.Errorf("ProgressiveChange(%d, %s) = %+v; want %+v", tt.idx, tt.property, got, tt.want)
		}
	}
}

func TestTrendsFillsAbsentProperties(t *testing.T) {
	series := seriesOf(
		map[string]int{"Flamingo": 1},
		map[string]int{"Puerto": 2},
	)

	rows := Trends(series)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Counts["Puerto"] != 0 || rows[1].Counts["Flamingo"] != 0 {
		t.Errorf("absent properties should count 0: %+v", rows)
	}
	if rows[0].Week != "1 Jan 2024 - 7 Jan 2024" {
		t.Errorf("week = %q", rows[0].Week)
	}
	if !rows[0].Changes["Flamingo"].IsNew {
		t.Error("first row should be new")
	}
	if names := PropertyNames(series); len(names) != 2 || names[0] != "Flamingo" {
		t.Errorf("PropertyNames = %v", names)
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, nil, nil, "")
	if !strings.Contains(buf.String(), "No data yet") {
		t.Errorf("empty report: %s", buf.String())
	}

	buf.Reset()
	series := seriesOf(map[string]int{"Flamingo": 1}, map[string]int{"Flamingo": 2})
	PrintReport(&buf, series, []string{"⚠️ check this"}, "All good")

	out := buf.String()
	for _, want := range []string{"⚠️ check this", "Current Week: 8 Jan 2024 - 14 Jan 2024", "▲ +1 (100%)", "New data", "All good"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestDescribeChange(t *testing.T) {
	tests := []struct {
		in   Change
		want string
	}{
		{Change{IsNew: true}, "New data"},
		{Change{}, "No change"},
		{Change{Change: 2, Percentage: 50}, "▲ +2 (50%)"},
		{Change{Change: -1, Percentage: -25}, "▼ -1 (-25%)"},
	}
	for _, tt := range tests {
		if got := describeChange(tt.in); got != tt.want {
			t.Errorf("describeChange(%+v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Los Amigos", 14); got != "Los Amigos" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncate("A very long hostel name", 10); got != "A very ..." {
		t.Errorf("truncate = %q", got)
	}
}
