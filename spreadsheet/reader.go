package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxSuffix = ".xlsx"
	xlsSuffix  = ".xls"

	// upper bound for legacy workbooks
	maxXLSRows = 100000
)

var ErrEmptyWorkbook = errors.New("spreadsheet: no worksheet found")

// IsSpreadsheetName reports whether name ends exactly in .xlsx or .xls.
func IsSpreadsheetName(name string) bool {
	return strings.HasSuffix(name, xlsxSuffix) || strings.HasSuffix(name, xlsSuffix)
}

// BaseName strips the spreadsheet suffix (and any directory) from name.
func BaseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, xlsxSuffix)
	return strings.TrimSuffix(name, xlsSuffix)
}

// Reader decodes the first worksheet of a workbook into row-major cells.
// Numeric cells become float64 (dates stay spreadsheet serials), text stays string.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Decode picks the format from the file name suffix.
func (r *Reader) Decode(name string, data []byte) ([][]any, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.HasSuffix(name, xlsSuffix) {
		rows, err = readXLS(data)
	} else {
		rows, err = readXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: decode %q: %w", name, err)
	}
	return typedRows(rows), nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptyWorkbook
	}
	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, ErrEmptyWorkbook
	}
	return wb.ReadAllCells(maxXLSRows), nil
}

func typedRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = typedCell(c)
		}
		out[i] = cells
	}
	return out
}

func typedCell(c string) any {
	trimmed := strings.TrimSpace(c)
	if trimmed == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t
	}
	return c
}
