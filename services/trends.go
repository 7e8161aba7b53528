package services

import (
	"sort"

	"hostel-analytics/models"
)

// Change is one property's week-over-week movement in reservation count.
type Change struct {
	Change     int  `json:"change"`
	Percentage int  `json:"percentage"`
	IsNew      bool `json:"isNew"`
}

// PropertyNames returns every property present anywhere in the series, sorted.
func PropertyNames(series models.TimeSeries) []string {
	set := make(map[string]struct{})
	for _, e := range series {
		for name := range e.Properties {
			set[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProgressiveChange compares a property's count in series[idx] with the period before it.
// The first period is always new; a missing property counts as 0.
func ProgressiveChange(series models.TimeSeries, idx int, property string) Change {
	if idx <= 0 || idx >= len(series) {
		return Change{IsNew: true}
	}

	current := series[idx].Properties[property].Count
	previous := series[idx-1].Properties[property].Count
	change := current - previous

	var pct int
	switch {
	case previous == 0 && current > 0:
		pct = 100
	case previous == 0:
		pct = 0
	default:
		pct = roundHalfUp(float64(change) / float64(previous) * 100)
	}
	return Change{Change: change, Percentage: pct}
}

// TrendRow is one period of the comparison table.
type TrendRow struct {
	Week    string             `json:"week"`
	Counts  map[string]int     `json:"counts"`
	ADR     map[string]float64 `json:"adr"`
	Changes map[string]Change  `json:"changes"`
}

// Trends builds the comparison table: per period, each known property's count,
// ADR and change from the previous period. Absent properties show 0.
func Trends(series models.TimeSeries) []TrendRow {
	names := PropertyNames(series)
	rows := make([]TrendRow, 0, len(series))

	for i, e := range series {
		row := TrendRow{
			Week:    e.Label,
			Counts:  make(map[string]int, len(names)),
			ADR:     make(map[string]float64, len(names)),
			Changes: make(map[string]Change, len(names)),
		}
		for _, name := range names {
			s := e.Properties[name]
			row.Counts[name] = s.Count
			row.ADR[name] = round2(s.ADR)
			row.Changes[name] = ProgressiveChange(series, i, name)
		}
		rows = append(rows, row)
	}
	return rows
}
