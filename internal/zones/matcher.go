package zones

import (
	"fmt"

	"github.com/floodwatch/floodwatch/internal/models"
)

// Fill colors for zone polygons. Unmatched zones render light blue; an alert
// with an unrecognized severity falls back to gray.
const (
	colorHigh    = "#ff0000"
	colorMedium  = "#ff8c00"
	colorLow     = "#ffd700"
	colorUnknown = "#808080"
	colorNoAlert = "#add8e6"
)

// Match returns the first alert whose zone name equals zoneName after
// trimming and lower-casing both sides. Alert lists arrive most-recent-first,
// so first match wins deliberately: the newest alert for a zone drives its
// styling.
func Match(alerts []models.Alert, zoneName string) (*models.Alert, bool) {
	want := normalize(zoneName)
	for i := range alerts {
		if normalize(alerts[i].Zone) == want {
			return &alerts[i], true
		}
	}
	return nil, false
}

// SeverityColor maps an alert severity to its map fill color.
func SeverityColor(s models.Severity) string {
	switch s {
	case models.SeverityHigh:
		return colorHigh
	case models.SeverityMedium:
		return colorMedium
	case models.SeverityLow:
		return colorLow
	default:
		return colorUnknown
	}
}

// PopupText builds the info string shown for a zone: the matching alert's
// severity and message, or a no-alert notice.
func PopupText(alert *models.Alert) string {
	if alert == nil {
		return "No active alerts"
	}
	return fmt.Sprintf("%s Alert: %s", alert.Severity, alert.Message)
}

// Overlay renders the registry as a FeatureCollection whose per-zone style
// and popup properties reflect the given alert list.
func (r *Registry) Overlay(alerts []models.Alert) FeatureCollection {
	features := make([]Feature, 0, len(r.features))

	for _, f := range r.features {
		name := stringProp(f.Properties, "zone")
		props := map[string]any{
			"zone": name,
		}

		alert, ok := Match(alerts, name)
		if ok {
			props["fillColor"] = SeverityColor(alert.Severity)
			props["fillOpacity"] = 0.7
			props["color"] = "#000000"
			props["weight"] = 2
			props["severity"] = string(alert.Severity)
			props["alertId"] = alert.ID
			props["acknowledged"] = alert.Acknowledged
		} else {
			props["fillColor"] = colorNoAlert
			props["fillOpacity"] = 0.3
			props["color"] = colorUnknown
			props["weight"] = 1
		}
		props["popup"] = PopupText(alert)

		features = append(features, Feature{
			Type:       "Feature",
			Geometry:   f.Geometry,
			Properties: props,
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
