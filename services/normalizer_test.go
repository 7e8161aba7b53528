package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"hostel-analytics/models"
	"hostel-analytics/utils"
)

func newTestLogger() *utils.Logger { return utils.NewDiscardLogger() }

// sheetRow builds a 36-column export row with the fields the normalizer reads.
func sheetRow(booking, checkIn any, nights, price any, source, status string) []any {
	row := make([]any, 36)
	row[colCheckIn] = checkIn
	row[colNights] = nights
	row[colPrice] = price
	row[colBookingDate] = booking
	row[colSource] = source
	row[colStatus] = status
	return row
}

// textRow builds a tab-separated pasted line.
func textRow(id, booking, checkIn, nights, price, status, source string) string {
	cells := []string{"1", id, "Guest", "ES", booking, "", checkIn, "", nights, price, status, source}
	return strings.Join(cells, "\t")
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  any
		want string
	}{
		{"€17,00", "17"},
		{"€50,00", "50"},
		{"€1.234,50", "1234.5"},
		{"1,200.50", "1200.5"},
		{"1,200", "1200"},
		{"1.234.567", "1234567"},
		{"12.5", "12.5"},
		{"EUR 99", "99"},
		{"", "0"},
		{"free", "0"},
		{"-5", "0"},
		{45.0, "45"},
		{-3.0, "0"},
		{nil, "0"},
	}

	for _, tt := range tests {
		got := ParsePrice(tt.raw)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParsePrice(%v) = %s; want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseNights(t *testing.T) {
	tests := []struct {
		raw  any
		want int
	}{
		{"3 nights", 3},
		{"2", 2},
		{2.0, 2},
		{4, 4},
		{"0", 1},
		{"", 1},
		{"abc", 1},
		{-2.0, 1},
		{nil, 1},
	}

	for _, tt := range tests {
		if got := ParseNights(tt.raw); got != tt.want {
			t.Errorf("ParseNights(%v) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeStructuredRows(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	cells := [][]any{
		make([]any, 36), // header
		sheetRow(45294.0, 45301.0, 2.0, 100.0, "Sitio web", "Confirmada"),
		sheetRow(45294.0, 45301.0, 1.0, 80.0, "Booking.com", "Confirmada"),
		make([]any, 36),
		sheetRow(45295.0, "", "", "gratis", "Sitio web - móvil", "Cancelada"),
	}

	res, diag := n.Normalize(SheetRows(cells))
	if len(res) != 2 {
		t.Fatalf("expected 2 direct reservations, got %d", len(res))
	}

	first := res[0]
	if first.Nights != 2 || !first.Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("first: nights %d price %s", first.Nights, first.Price)
	}
	if first.LeadTime == nil || *first.LeadTime != 7 {
		t.Errorf("first lead time: got %v, want 7", first.LeadTime)
	}
	if first.BookingDate == nil || !first.BookingDate.Equal(date(2024, 1, 3)) {
		t.Errorf("first booking date: got %v", first.BookingDate)
	}

	second := res[1]
	if second.Nights != 1 || !second.Price.IsZero() || second.LeadTime != nil {
		t.Errorf("second: nights %d price %s lead %v", second.Nights, second.Price, second.LeadTime)
	}
	if !second.IsCancelled() {
		t.Error("second should be cancelled")
	}

	want := models.Diagnostics{
		RowsSeen:         4,
		SkippedMalformed: 1,
		SkippedSource:    1,
		DefaultedNights:  1,
		DefaultedPrices:  1,
		ReservationsKept: 2,
	}
	if diag != want {
		t.Errorf("diagnostics: got %+v, want %+v", diag, want)
	}
}

func TestNormalizeTextRows(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	paste := strings.Join([]string{
		textRow("R1", "03/01/2024", "10/01/2024", "2", "€50,00", "Confirmada", "Sitio web"),
		textRow("R2", "03/01/2024", "10/01/2024", "1", "€40,00", "Confirmada", "Booking.com"),
		textRow("", "03/01/2024", "10/01/2024", "1", "€40,00", "Confirmada", "Sitio web"),
		"too\tshort",
		textRow("R3", "n/a", "10/01/2024", "3", "€90,00", "Cancelled", "Sitio web"),
	}, "\n")

	rows, err := SplitPastedTable(paste)
	if err != nil {
		t.Fatal(err)
	}
	res, diag := n.Normalize(rows)
	if len(res) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(res))
	}
	if res[0].ReservationID != "R1" || !res[0].Price.Equal(decimal.NewFromInt(50)) {
		t.Errorf("R1: got %+v", res[0])
	}
	if res[0].CheckOut != nil {
		t.Errorf("R1 check-out should be unset, got %v", res[0].CheckOut)
	}
	if res[1].BookingDate != nil || res[1].RawBookingDate != "n/a" {
		t.Errorf("R3 booking date: got %v raw %v", res[1].BookingDate, res[1].RawBookingDate)
	}
	if diag.SkippedMalformed != 2 || diag.SkippedSource != 1 || diag.UnparseableDates != 1 {
		t.Errorf("diagnostics: got %+v", diag)
	}
}
