package services

import (
	"testing"
	"time"

	"hostel-analytics/models"
)

func booked(t time.Time) models.Reservation {
	return models.Reservation{BookingDate: &t}
}

func TestDetectPeriodUsesEarliestBooking(t *testing.T) {
	res := []models.Reservation{
		booked(date(2024, 1, 10)),
		{},
		booked(date(2024, 1, 2)),
	}
	p, ok := DetectPeriod(res)
	if !ok {
		t.Fatal("expected a period")
	}
	if !p.Start.Equal(date(2024, 1, 1)) {
		t.Errorf("Start = %v; want 2024-01-01", p.Start)
	}

	if _, ok := DetectPeriod([]models.Reservation{{}, {}}); ok {
		t.Error("expected no period without booking dates")
	}
}

func TestValidateWeekMatch(t *testing.T) {
	selected := CalculatePeriod(date(2024, 1, 1))

	tests := []struct {
		name string
		res  []models.Reservation
		want []string
	}{
		{"same week", []models.Reservation{booked(date(2024, 1, 5))}, nil},
		{"no dates", []models.Reservation{{}}, nil},
		{
			"next week",
			[]models.Reservation{booked(date(2024, 1, 10))},
			[]string{"⚠️ Data appears to be from 8 Jan 2024 - 14 Jan 2024 but you selected 1 Jan 2024 - 7 Jan 2024"},
		},
	}

	for _, tt := range tests {
		got := ValidateWeekMatch(tt.res, selected)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %q; want %q", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: got %q; want %q", tt.name, got[i], tt.want[i])
			}
		}
	}

	if got := ValidateWeekMatch([]models.Reservation{booked(date(2024, 1, 10))}, models.Period{}); got != nil {
		t.Errorf("zero expected period should not warn, got %q", got)
	}
}
