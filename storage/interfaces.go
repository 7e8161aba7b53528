package storage

import (
	"context"
	"sort"

	"hostel-analytics/models"
)

// SeriesWriter is the interface any export backend must satisfy.
// Each Write replaces the backend's view of the whole series.
type SeriesWriter interface {
	Write(ctx context.Context, series models.TimeSeries) error
	Close() error
}

// SeriesRow is one (period, property) cell of the series, flattened for export.
type SeriesRow struct {
	PeriodStart string  `db:"period_start"`
	PeriodEnd   string  `db:"period_end"`
	Week        string  `db:"week"`
	Property    string  `db:"property"`
	Count       int     `db:"count"`
	Cancelled   int     `db:"cancelled"`
	Valid       int     `db:"valid"`
	ADR         float64 `db:"adr"`
	AvgLeadTime int     `db:"avg_lead_time"`
}

// Flatten turns the series into rows ordered by period start, then property name.
func Flatten(series models.TimeSeries) []SeriesRow {
	var rows []SeriesRow
	for _, e := range series {
		names := make([]string, 0, len(e.Properties))
		for name := range e.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		end := e.Start.AddDate(0, 0, 6)
		for _, name := range names {
			s := e.Properties[name]
			rows = append(rows, SeriesRow{
				PeriodStart: e.Start.Format(dateLayout),
				PeriodEnd:   end.Format(dateLayout),
				Week:        e.Label,
				Property:    name,
				Count:       s.Count,
				Cancelled:   s.Cancelled,
				Valid:       s.Valid,
				ADR:         s.ADR,
				AvgLeadTime: s.AvgLeadTime,
			})
		}
	}
	return rows
}

const dateLayout = "2006-01-02"
