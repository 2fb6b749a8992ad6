package models

import "time"

type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Alert is a single flood warning tied to a zone by name. Everything is
// immutable after creation except the one-way Acknowledged transition.
type Alert struct {
	ID           int64     `json:"id"`
	Zone         string    `json:"zone"`
	Message      string    `json:"message"`
	Severity     Severity  `json:"severity"`
	Time         string    `json:"time"` // display timestamp, caller-supplied or defaulted
	Acknowledged bool      `json:"acknowledged"`
	CreatedAt    time.Time `json:"createdAt"`
}
