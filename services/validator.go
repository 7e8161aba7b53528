package services

import (
	"fmt"

	"hostel-analytics/models"
)

// DetectPeriod returns the week of the earliest parseable booking date.
func DetectPeriod(reservations []models.Reservation) (models.Period, bool) {
	var earliest *models.Reservation
	for i := range reservations {
		r := &reservations[i]
		if r.BookingDate == nil {
			continue
		}
		if earliest == nil || r.BookingDate.Before(*earliest.BookingDate) {
			earliest = r
		}
	}
	if earliest == nil {
		return models.Period{}, false
	}
	return CalculatePeriod(*earliest.BookingDate), true
}

// ValidateWeekMatch warns when the data's own week differs from the expected one.
// It is advisory; an empty result means no mismatch or nothing to compare.
func ValidateWeekMatch(reservations []models.Reservation, expected models.Period) []string {
	detected, ok := DetectPeriod(reservations)
	if !ok || expected.IsZero() || detected.Same(expected) {
		return nil
	}
	return []string{mismatchWarning(detected, expected)}
}

func mismatchWarning(detected, expected models.Period) string {
	return fmt.Sprintf("⚠️ Data appears to be from %s but you selected %s", detected.Label, expected.Label)
}
