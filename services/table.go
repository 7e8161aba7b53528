package services

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hostel-analytics/models"
)

// IsHTMLTable reports whether a pasted blob carries table markup.
func IsHTMLTable(data string) bool {
	return strings.Contains(data, "<table") || strings.Contains(data, "<tr")
}

// SplitPastedTable splits a pasted blob into rows of cell texts. Markup is read
// as an HTML table (<td> text, in order); anything else as tab-separated lines.
func SplitPastedTable(data string) ([]models.RawRow, error) {
	if IsHTMLTable(data) {
		return splitHTMLRows(data)
	}
	return splitTextRows(data), nil
}

func splitHTMLRows(data string) ([]models.RawRow, error) {
	markup := data
	// bare <tr> fragments are dropped by the HTML parser outside a table
	if !strings.Contains(markup, "<table") {
		markup = "<table>" + markup + "</table>"
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse pasted html: %w", err)
	}

	var rows []models.RawRow
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		texts := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, models.RawRow{Kind: models.HTMLRow, Texts: texts})
	})
	return rows, nil
}

func splitTextRows(data string) []models.RawRow {
	var rows []models.RawRow
	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, models.RawRow{Kind: models.TextRow, Texts: cells})
	}
	return rows
}
