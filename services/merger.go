package services

import (
	"sort"

	"hostel-analytics/models"
)

// MergeIntoSeries places summary under property in the entry for period.
// An existing slot for that property is replaced; other properties are left
// alone. A missing period is appended. The result is sorted by period start
// and series itself is never modified.
func MergeIntoSeries(series models.TimeSeries, period models.Period, property string, summary models.PropertyPeriodSummary) models.TimeSeries {
	return MergeBatch(series, period, map[string]models.PropertyPeriodSummary{property: summary})
}

// MergeBatch merges several properties' summaries for the same period at once.
func MergeBatch(series models.TimeSeries, period models.Period, summaries map[string]models.PropertyPeriodSummary) models.TimeSeries {
	updated := series.Clone()

	idx := -1
	for i, e := range updated {
		if e.Start.Equal(period.Start) {
			idx = i
			break
		}
	}

	if idx < 0 {
		updated = append(updated, models.PeriodEntry{
			Label:      period.Label,
			Start:      period.Start,
			Properties: make(map[string]models.PropertyPeriodSummary, len(summaries)),
		})
		idx = len(updated) - 1
	}

	for name, s := range summaries {
		updated[idx].Properties[name] = s
	}

	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].Start.Before(updated[j].Start)
	})
	return updated
}
