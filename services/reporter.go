package services

import (
	"fmt"
	"io"
	"strings"

	"hostel-analytics/models"
)

// PrintReport writes the weekly comparison, current-week cards, warnings and
// the analysis report (if any) to w.
func PrintReport(w io.Writer, series models.TimeSeries, warnings []string, analysis string) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 HOSTEL DIRECT BOOKINGS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	if len(warnings) > 0 {
		fmt.Fprintf(w, "\033[1;33m  Warnings\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		for _, warn := range warnings {
			fmt.Fprintf(w, "  %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(series) == 0 {
		fmt.Fprintf(w, "  No data yet\n\n")
		return
	}

	latest := series[len(series)-1]
	fmt.Fprintf(w, "\033[1;33m  Current Week: %s\033[0m\n", latest.Label)
	fmt.Fprintf(w, "  %s\n", thin)
	for _, name := range PropertyNames(models.TimeSeries{latest}) {
		s := latest.Properties[name]
		fmt.Fprintf(w, "  %-14s %3d direct  %3d cancelled  ADR €%7.2f  lead %3d days\n",
			truncate(name, 14), s.Count, s.Cancelled, s.ADR, s.AvgLeadTime)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Weekly Performance Comparison\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, row := range Trends(series) {
		fmt.Fprintf(w, "  %s\n", row.Week)
		for _, name := range PropertyNames(series) {
			fmt.Fprintf(w, "    %-14s %3d  %s\n", truncate(name, 14), row.Counts[name], describeChange(row.Changes[name]))
		}
	}

	if analysis != "" {
		fmt.Fprintf(w, "\n\033[1;33m  AI Performance Analysis\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "%s\n", analysis)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func describeChange(c Change) string {
	switch {
	case c.IsNew:
		return "New data"
	case c.Change == 0:
		return "No change"
	case c.Change > 0:
		return fmt.Sprintf("▲ +%d (%d%%)", c.Change, c.Percentage)
	default:
		return fmt.Sprintf("▼ %d (%d%%)", c.Change, c.Percentage)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
