package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RowKind tags which input encoding a RawRow came from.
type RowKind int

const (
	// StructuredRow is a decoded spreadsheet row addressed by fixed column offsets.
	StructuredRow RowKind = iota
	// HTMLRow is the ordered <td> text of one pasted table row.
	HTMLRow
	// TextRow is one tab-separated pasted line.
	TextRow
)

func (k RowKind) String() string {
	switch k {
	case StructuredRow:
		return "structured"
	case HTMLRow:
		return "html"
	case TextRow:
		return "text"
	default:
		return "unknown"
	}
}

// RawRow holds one unprocessed tabular row before normalization.
// Cells is populated for StructuredRow, Texts for HTMLRow and TextRow.
type RawRow struct {
	Kind  RowKind
	Cells []any
	Texts []string
}

// Reservation is one direct booking line item in canonical shape.
type Reservation struct {
	ReservationID  string          `json:"reservation,omitempty"`
	RawBookingDate any             `json:"bookingDate"`
	BookingDate    *time.Time      `json:"-"`
	CheckIn        *time.Time      `json:"checkin,omitempty"`
	CheckOut       *time.Time      `json:"checkout,omitempty"`
	Nights         int             `json:"nights"`
	Price          decimal.Decimal `json:"price"`
	Status         string          `json:"status"`
	Source         string          `json:"source"`
	LeadTime       *int            `json:"leadTime"`
}

// IsCancelled reports whether the status mentions a cancellation, case-insensitively.
func (r Reservation) IsCancelled() bool {
	return strings.Contains(strings.ToLower(r.Status), "cancel")
}

// FileBlob is one named binary blob of a file batch.
type FileBlob struct {
	Name string
	Data []byte
}
