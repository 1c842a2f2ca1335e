package domain

import "time"

// Incident is one novelty recorded inside a daily report.
type Incident struct {
	Type     string  `json:"type"`
	Person   string  `json:"person,omitempty"`
	Duration float64 `json:"duration_hours,omitempty"`
}

// DailyReport is one submitted operations report: who reported, for which
// client operation and area, on which date, and the day's numbers.
type DailyReport struct {
	ID            string
	UserID        string
	Reporter      string
	Area          string
	Operation     string
	ReportDate    time.Time // date only; normalized to midnight UTC
	HoursWorked   float64
	Incidents     []Incident
	Hires         int
	Retirements   int
	RelevantFacts string
	CreatedAt     time.Time
}

// ReportFilter narrows a report listing. Zero values mean "no constraint".
type ReportFilter struct {
	Area     string
	UserID   string
	DateFrom time.Time
	DateTo   time.Time
}

// AreaSummary is one row of an aggregated view: per-area totals over a
// single day (daily window) or a date range (accumulated window).
type AreaSummary struct {
	Area        string  `json:"area"`
	Reports     int     `json:"reports"`
	Hours       float64 `json:"hours"`
	Incidents   int     `json:"incidents"`
	Hires       int     `json:"hires"`
	Retirements int     `json:"retirements"`
}
