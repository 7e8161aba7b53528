package models

import (
	"time"

	"github.com/google/uuid"
)

// Period is a canonical time bucket, currently a Monday-start week.
// Start identifies the period; Label is derived from Start and End for display.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// IsZero reports whether the period has not been set.
func (p Period) IsZero() bool {
	return p.Start.IsZero()
}

// Same reports whether two periods denote the same bucket.
func (p Period) Same(o Period) bool {
	return p.Start.Equal(o.Start)
}

// PropertyPeriodSummary aggregates one property's direct bookings in one period.
// Count always equals Cancelled + Valid.
type PropertyPeriodSummary struct {
	Count       int           `json:"count"`
	Cancelled   int           `json:"cancelled"`
	Valid       int           `json:"valid"`
	ADR         float64       `json:"adr"`
	AvgLeadTime int           `json:"avgLeadTime"`
	Bookings    []Reservation `json:"bookings"`
}

// PeriodEntry is one period of the time series with its per-property summaries.
type PeriodEntry struct {
	Label      string                           `json:"week"`
	Start      time.Time                        `json:"date"`
	Properties map[string]PropertyPeriodSummary `json:"hostels"`
}

// TimeSeries is ordered ascending by period start; labels are unique.
type TimeSeries []PeriodEntry

// Clone returns a copy whose entries and property maps can be mutated
// without affecting the receiver. Booking slices are shared read-only.
func (ts TimeSeries) Clone() TimeSeries {
	if ts == nil {
		return nil
	}
	out := make(TimeSeries, len(ts))
	for i, e := range ts {
		props := make(map[string]PropertyPeriodSummary, len(e.Properties))
		for name, s := range e.Properties {
			props[name] = s
		}
		out[i] = PeriodEntry{Label: e.Label, Start: e.Start, Properties: props}
	}
	return out
}

// Diagnostics counts what the normalizer skipped or defaulted. It never
// influences the produced reservations.
type Diagnostics struct {
	RowsSeen         int `json:"rowsSeen"`
	SkippedMalformed int `json:"skippedMalformed"`
	SkippedSource    int `json:"skippedSource"`
	DefaultedNights  int `json:"defaultedNights"`
	DefaultedPrices  int `json:"defaultedPrices"`
	UnparseableDates int `json:"unparseableDates"`
	ReservationsKept int `json:"reservationsKept"`
}

// Add accumulates another Diagnostics into d.
func (d *Diagnostics) Add(o Diagnostics) {
	d.RowsSeen += o.RowsSeen
	d.SkippedMalformed += o.SkippedMalformed
	d.SkippedSource += o.SkippedSource
	d.DefaultedNights += o.DefaultedNights
	d.DefaultedPrices += o.DefaultedPrices
	d.UnparseableDates += o.UnparseableDates
	d.ReservationsKept += o.ReservationsKept
}

// BatchResult describes what one processed batch contributed to the series.
type BatchResult struct {
	BatchID     uuid.UUID                        `json:"batchId"`
	Period      Period                           `json:"period"`
	Summaries   map[string]PropertyPeriodSummary `json:"summaries"`
	Warnings    []string                         `json:"warnings"`
	Diagnostics Diagnostics                      `json:"diagnostics"`
}
