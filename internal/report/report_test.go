package report

import (
	"strings"
	"testing"
	"time"

	"github.com/floodwatch/floodwatch/internal/models"
)

func TestAlertsCSV_QuotesAndEscapes(t *testing.T) {
	alerts := []models.Alert{
		{
			ID:           1,
			Zone:         "X",
			Message:      `He said "hi"`,
			Severity:     models.SeverityLow,
			Time:         "t1",
			Acknowledged: true,
			CreatedAt:    time.Date(2026, 7, 25, 0, 0, 0, 0, time.UTC),
		},
	}

	got := AlertsCSV(alerts)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}

	if lines[0] != "ID,Zone,Message,Severity,Time,Acknowledged,Created Date" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	want := `1,"X","He said ""hi""",Low,t1,Yes,7/25/2026`
	if lines[1] != want {
		t.Errorf("unexpected row:\n got %q\nwant %q", lines[1], want)
	}
}

func TestAlertsCSV_Empty(t *testing.T) {
	got := AlertsCSV(nil)
	if got != "ID,Zone,Message,Severity,Time,Acknowledged,Created Date" {
		t.Errorf("expected header-only document, got %q", got)
	}
}

func TestAlertsCSV_UnacknowledgedRendersNo(t *testing.T) {
	alerts := []models.Alert{
		{ID: 2, Zone: "Kuttanad Basin", Message: "Rising waters", Severity: models.SeverityMedium, Time: "t2"},
	}
	got := AlertsCSV(alerts)
	if !strings.Contains(got, ",No,") {
		t.Errorf("expected unacknowledged row to render No: %q", got)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 13, 30, 0, 0, time.UTC)
	if got := Filename(now); got != "flood_alerts_report_2026-09-01.csv" {
		t.Errorf("unexpected filename: %q", got)
	}
}

func TestSummarize(t *testing.T) {
	alerts := []models.Alert{
		{Severity: models.SeverityHigh, Acknowledged: true},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityMedium},
		{Severity: models.SeverityLow, Acknowledged: true},
	}

	s := Summarize(alerts)
	if s.Total != 4 {
		t.Errorf("expected total 4, got %d", s.Total)
	}
	if s.Acknowledged != 2 || s.Pending != 2 {
		t.Errorf("expected 2 acknowledged / 2 pending, got %d / %d", s.Acknowledged, s.Pending)
	}
	if s.HighSeverity != 2 || s.MediumSeverity != 1 || s.LowSeverity != 1 {
		t.Errorf("unexpected severity counts: %+v", s)
	}
}
