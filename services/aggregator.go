package services

import (
	"math"

	"github.com/shopspring/decimal"

	"hostel-analytics/models"
)

// Aggregate folds one property's reservations for one period into a summary.
// It is pure: the same reservations in any order give the same summary.
func Aggregate(reservations []models.Reservation) models.PropertyPeriodSummary {
	summary := models.PropertyPeriodSummary{
		Count:    len(reservations),
		Bookings: reservations,
	}
	if summary.Bookings == nil {
		summary.Bookings = []models.Reservation{}
	}

	revenue := decimal.Zero
	nights := 0
	leadSum := 0
	leadCount := 0

	for _, r := range reservations {
		if r.LeadTime != nil {
			leadSum += *r.LeadTime
			leadCount++
		}
		if r.IsCancelled() {
			summary.Cancelled++
			continue
		}
		revenue = revenue.Add(r.Price)
		nights += r.Nights
	}
	summary.Valid = summary.Count - summary.Cancelled

	if nights > 0 {
		summary.ADR = revenue.Div(decimal.NewFromInt(int64(nights))).InexactFloat64()
	}
	if leadCount > 0 {
		summary.AvgLeadTime = roundHalfUp(float64(leadSum) / float64(leadCount))
	}

	return summary
}

// roundHalfUp rounds .5 towards positive infinity, so -2.5 becomes -2.
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
