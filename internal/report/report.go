package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/floodwatch/floodwatch/internal/models"
)

var csvHeader = []string{"ID", "Zone", "Message", "Severity", "Time", "Acknowledged", "Created Date"}

// AlertsCSV renders the alert list as a CSV document: header row first, one
// row per alert. Zone and message are always double-quoted; quotes inside the
// message are doubled so spreadsheet tools round-trip them.
func AlertsCSV(alerts []models.Alert) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))

	for _, a := range alerts {
		acknowledged := "No"
		if a.Acknowledged {
			acknowledged = "Yes"
		}

		row := []string{
			fmt.Sprintf("%d", a.ID),
			`"` + a.Zone + `"`,
			`"` + strings.ReplaceAll(a.Message, `"`, `""`) + `"`,
			string(a.Severity),
			a.Time,
			acknowledged,
			a.CreatedAt.Format("1/2/2006"),
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(row, ","))
	}

	return b.String()
}

// Filename returns the export file name for the given day, e.g.
// flood_alerts_report_2026-09-01.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("flood_alerts_report_%s.csv", now.Format("2006-01-02"))
}

// Summary aggregates the alert list for the reports dashboard.
type Summary struct {
	Total          int `json:"total"`
	Acknowledged   int `json:"acknowledged"`
	Pending        int `json:"pending"`
	HighSeverity   int `json:"highSeverity"`
	MediumSeverity int `json:"mediumSeverity"`
	LowSeverity    int `json:"lowSeverity"`
}

func Summarize(alerts []models.Alert) Summary {
	s := Summary{Total: len(alerts)}
	for _, a := range alerts {
		if a.Acknowledged {
			s.Acknowledged++
		} else {
			s.Pending++
		}
		switch a.Severity {
		case models.SeverityHigh:
			s.HighSeverity++
		case models.SeverityMedium:
			s.MediumSeverity++
		case models.SeverityLow:
			s.LowSeverity++
		}
	}
	return s
}
