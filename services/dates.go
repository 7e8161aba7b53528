package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"hostel-analytics/models"
)

const (
	// spreadsheet serial day 0
	serialEpochYear  = 1899
	serialEpochMonth = time.December
	serialEpochDay   = 30

	weekLength = 7
	day        = 24 * time.Hour
)

var serialEpoch = time.Date(serialEpochYear, serialEpochMonth, serialEpochDay, 0, 0, 0, 0, time.UTC)

// ParseFlexibleDate accepts a spreadsheet serial day number or a "D/M/Y" string.
// Anything else, including nil and "", is reported as not parseable.
// Results are in UTC; serial fractions carry the time of day.
func ParseFlexibleDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case float64:
		return fromSerial(v)
	case float32:
		return fromSerial(float64(v))
	case int:
		return fromSerial(float64(v))
	case int32:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case uint:
		return fromSerial(float64(v))
	case uint32:
		return fromSerial(float64(v))
	case uint64:
		return fromSerial(float64(v))
	case string:
		return parseDayMonthYear(v)
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v.UTC(), true
	default:
		return time.Time{}, false
	}
}

func fromSerial(n float64) (time.Time, bool) {
	// 0 is falsy upstream and means "no date"
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return time.Time{}, false
	}
	ms := math.Round(n * float64(day/time.Millisecond))
	return serialEpoch.Add(time.Duration(ms) * time.Millisecond), true
}

func parseDayMonthYear(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	d, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	// "02/01/2024 14:05" keeps only the year token
	yearField := strings.Fields(parts[2])
	if len(yearField) == 0 {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(yearField[0])
	if err != nil {
		return time.Time{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}

	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

// CalculatePeriod returns the Monday-start week containing t.
// Start is midnight on Monday, End is the last millisecond of the following Sunday.
func CalculatePeriod(t time.Time) models.Period {
	t = t.UTC()
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += weekLength
	}

	start := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, weekLength-1).Add(day - time.Millisecond)

	return models.Period{
		Start: start,
		End:   end,
		Label: FormatPeriodRange(start, end),
	}
}

// PeriodForWeekStart returns the week containing the operator-selected start date.
func PeriodForWeekStart(value string) (models.Period, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return models.Period{}, fmt.Errorf("invalid week start %q: %w", value, err)
	}
	return CalculatePeriod(t), nil
}

// FormatPeriodRange renders "D Mon YYYY - D Mon YYYY".
func FormatPeriodRange(start, end time.Time) string {
	return formatDay(start) + " - " + formatDay(end)
}

func formatDay(t time.Time) string {
	return t.Format("2 Jan 2006")
}

// LeadTimeDays is the whole number of days from booking to check-in, floored.
func LeadTimeDays(booking, checkIn time.Time) int {
	return int(math.Floor(checkIn.Sub(booking).Hours() / 24))
}
