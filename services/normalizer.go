package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"hostel-analytics/models"
	"hostel-analytics/utils"
)

// DirectSourceMarker identifies bookings made on the property's own website.
const DirectSourceMarker = "Sitio web"

// Spreadsheet export columns (0-indexed).
const (
	colCheckIn     = 23
	colNights      = 25
	colPrice       = 27
	colBookingDate = 32
	colSource      = 33
	colStatus      = 35
)

// Pasted table cell positions.
const (
	cellReservation = 1
	cellBookingDate = 4
	cellCheckIn     = 6
	cellCheckOut    = 7
	cellNights      = 8
	cellPrice       = 9
	cellStatus      = 10
	cellSource      = 11

	minPastedCells = 10
)

// Normalizer turns raw tabular rows of any encoding into canonical Reservations.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// SheetRows wraps decoded spreadsheet cells as structured rows, dropping the header row.
func SheetRows(cells [][]any) []models.RawRow {
	if len(cells) <= 1 {
		return nil
	}
	rows := make([]models.RawRow, 0, len(cells)-1)
	for _, c := range cells[1:] {
		rows = append(rows, models.RawRow{Kind: models.StructuredRow, Cells: c})
	}
	return rows
}

// Normalize converts rows into direct-booking reservations. Malformed rows and
// rows from other channels are skipped; diag records what happened to each row.
func (n *Normalizer) Normalize(rows []models.RawRow) ([]models.Reservation, models.Diagnostics) {
	var diag models.Diagnostics
	result := make([]models.Reservation, 0, len(rows))

	for _, row := range rows {
		diag.RowsSeen++

		var (
			res models.Reservation
			ok  bool
		)
		switch row.Kind {
		case models.StructuredRow:
			res, ok = n.normalizeStructured(row.Cells, &diag)
		case models.HTMLRow, models.TextRow:
			res, ok = n.normalizeCells(row.Texts, &diag)
		default:
			diag.SkippedMalformed++
			continue
		}
		if !ok {
			continue
		}
		result = append(result, res)
	}

	diag.ReservationsKept = len(result)
	n.logger.Debug("[normalizer] %d rows -> %d direct reservations (malformed %d, other channels %d)",
		diag.RowsSeen, diag.ReservationsKept, diag.SkippedMalformed, diag.SkippedSource)
	return result, diag
}

func (n *Normalizer) normalizeStructured(cells []any, diag *models.Diagnostics) (models.Reservation, bool) {
	if isEmptyRow(cells) {
		diag.SkippedMalformed++
		return models.Reservation{}, false
	}

	source, _ := cellAt(cells, colSource).(string)
	if !strings.Contains(source, DirectSourceMarker) {
		diag.SkippedSource++
		return models.Reservation{}, false
	}

	status := cellText(cellAt(cells, colStatus))
	rawBooking := cellAt(cells, colBookingDate)

	res := models.Reservation{
		RawBookingDate: rawBooking,
		BookingDate:    n.parseDate(rawBooking, diag),
		CheckIn:        n.parseDate(cellAt(cells, colCheckIn), diag),
		Status:         status,
		Source:         source,
	}
	res.Nights = parseNightsCounted(cellAt(cells, colNights), diag)
	res.Price = parsePriceCounted(cellAt(cells, colPrice), diag)
	res.LeadTime = leadTime(res.BookingDate, res.CheckIn)
	return res, true
}

func (n *Normalizer) normalizeCells(texts []string, diag *models.Diagnostics) (models.Reservation, bool) {
	if len(texts) < minPastedCells {
		diag.SkippedMalformed++
		return models.Reservation{}, false
	}

	reservation := textAt(texts, cellReservation)
	bookingDate := textAt(texts, cellBookingDate)
	if reservation == "" || bookingDate == "" {
		diag.SkippedMalformed++
		return models.Reservation{}, false
	}

	source := textAt(texts, cellSource)
	if !strings.Contains(source, DirectSourceMarker) {
		diag.SkippedSource++
		return models.Reservation{}, false
	}

	res := models.Reservation{
		ReservationID:  reservation,
		RawBookingDate: bookingDate,
		BookingDate:    n.parseDate(bookingDate, diag),
		CheckIn:        n.parseDate(textAt(texts, cellCheckIn), diag),
		CheckOut:       n.parseDate(textAt(texts, cellCheckOut), diag),
		Status:         textAt(texts, cellStatus),
		Source:         source,
	}
	res.Nights = parseNightsCounted(textAt(texts, cellNights), diag)
	res.Price = parsePriceCounted(textAt(texts, cellPrice), diag)
	res.LeadTime = leadTime(res.BookingDate, res.CheckIn)
	return res, true
}

func (n *Normalizer) parseDate(v any, diag *models.Diagnostics) *time.Time {
	t, ok := ParseFlexibleDate(v)
	if !ok {
		if !isBlank(v) {
			diag.UnparseableDates++
		}
		return nil
	}
	return &t
}

func leadTime(booking, checkIn *time.Time) *int {
	if booking == nil || checkIn == nil {
		return nil
	}
	days := LeadTimeDays(*booking, *checkIn)
	return &days
}

// ParsePrice converts a raw price cell into a non-negative amount.
// "€17,00" -> 17.00, "€1.234,50" -> 1234.50, "1,200.50" -> 1200.50.
// Unparseable or negative values yield 0.
func ParsePrice(v any) decimal.Decimal {
	d, _ := parsePrice(v)
	return d
}

func parsePriceCounted(v any, diag *models.Diagnostics) decimal.Decimal {
	d, ok := parsePrice(v)
	if !ok {
		diag.DefaultedPrices++
	}
	return d
}

func parsePrice(v any) (decimal.Decimal, bool) {
	switch p := v.(type) {
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(p), true
	case int:
		if p < 0 {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(int64(p)), true
	case int64:
		if p < 0 {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(p), true
	case string:
		return parsePriceString(p)
	default:
		return decimal.Zero, false
	}
}

func parsePriceString(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := normaliseSeparators(b.String())
	if cleaned == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// normaliseSeparators leaves at most one '.' as the decimal point.
func normaliseSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,50
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		// 1,234.50
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0 && strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	default:
		return s
	}
}

// ParseNights reads the leading integer of a nights cell, defaulting to 1.
func ParseNights(v any) int {
	nights, _ := parseNights(v)
	return nights
}

func parseNightsCounted(v any, diag *models.Diagnostics) int {
	nights, ok := parseNights(v)
	if !ok {
		diag.DefaultedNights++
	}
	return nights
}

func parseNights(v any) (int, bool) {
	var n int
	switch p := v.(type) {
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return 1, false
		}
		n = int(p)
	case int:
		n = p
	case int64:
		n = int(p)
	case string:
		parsed, ok := leadingInt(p)
		if !ok {
			return 1, false
		}
		n = parsed
	default:
		return 1, false
	}
	if n <= 0 {
		return 1, false
	}
	return n, true
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func cellAt(cells []any, idx int) any {
	if idx < 0 || idx >= len(cells) {
		return nil
	}
	return cells[idx]
}

func textAt(texts []string, idx int) string {
	if idx < 0 || idx >= len(texts) {
		return ""
	}
	return strings.TrimSpace(texts[idx])
}

func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}

func isBlank(v any) bool {
	return cellText(v) == ""
}

func isEmptyRow(cells []any) bool {
	for _, c := range cells {
		if !isBlank(c) {
			return false
		}
	}
	return true
}
