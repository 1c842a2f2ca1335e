package authclient

import (
	"context"
	"net/url"
	"time"
)

// Incident is one recorded novelty on a daily report.
type Incident struct {
	Type     string  `json:"type"`
	Person   string  `json:"person,omitempty"`
	Duration float64 `json:"duration_hours,omitempty"`
}

// ReportRequest is the body accepted by POST /api/v1/reports. ReportDate
// is a calendar day in YYYY-MM-DD form.
type ReportRequest struct {
	Reporter      string     `json:"reporter"`
	Area          string     `json:"area"`
	Operation     string     `json:"operation,omitempty"`
	ReportDate    string     `json:"report_date"`
	HoursWorked   float64    `json:"hours_worked"`
	Incidents     []Incident `json:"incidents,omitempty"`
	Hires         int        `json:"hires,omitempty"`
	Retirements   int        `json:"retirements,omitempty"`
	RelevantFacts string     `json:"relevant_facts,omitempty"`
}

// Report is a stored daily report as returned by the service.
type Report struct {
	ID            string     `json:"id"`
	Reporter      string     `json:"reporter"`
	Area          string     `json:"area"`
	Operation     string     `json:"operation,omitempty"`
	ReportDate    string     `json:"report_date"`
	HoursWorked   float64    `json:"hours_worked"`
	Incidents     []Incident `json:"incidents,omitempty"`
	Hires         int        `json:"hires"`
	Retirements   int        `json:"retirements"`
	RelevantFacts string     `json:"relevant_facts,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AreaSummary is the per-area aggregate row of the summary endpoint.
type AreaSummary struct {
	Area        string  `json:"area"`
	Reports     int     `json:"reports"`
	Hours       float64 `json:"hours"`
	Incidents   int     `json:"incidents"`
	Hires       int     `json:"hires"`
	Retirements int     `json:"retirements"`
}

// ReportListResponse wraps the report listing.
type ReportListResponse struct {
	Reports []Report `json:"reports"`
}

// SummaryResponse wraps the per-area aggregates for one window.
type SummaryResponse struct {
	Window  string        `json:"window"`
	Summary []AreaSummary `json:"summary"`
}

// ReportFilter narrows the report listing. Zero fields are not sent.
type ReportFilter struct {
	Area string
	From string // YYYY-MM-DD
	To   string // YYYY-MM-DD
}

// SubmitReport files a new daily report.
func (c *APIClient) SubmitReport(ctx context.Context, accessToken string, req ReportRequest) (*Report, error) {
	var out Report
	if err := c.postJSON(ctx, "/api/v1/reports", accessToken, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReports fetches stored reports, optionally filtered. Admin access
// required.
func (c *APIClient) ListReports(ctx context.Context, accessToken string, filter ReportFilter) ([]Report, error) {
	q := url.Values{}
	if filter.Area != "" {
		q.Set("area", filter.Area)
	}
	if filter.From != "" {
		q.Set("from", filter.From)
	}
	if filter.To != "" {
		q.Set("to", filter.To)
	}

	path := "/api/v1/reports"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out ReportListResponse
	if err := c.getJSON(ctx, path, accessToken, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

// DailySummary fetches the per-area aggregates for a single day. An empty
// date means today.
func (c *APIClient) DailySummary(ctx context.Context, accessToken, date string) (*SummaryResponse, error) {
	q := url.Values{"window": {"daily"}}
	if date != "" {
		q.Set("date", date)
	}
	return c.summary(ctx, accessToken, q)
}

// AccumulatedSummary fetches the per-area aggregates over a date range.
func (c *APIClient) AccumulatedSummary(ctx context.Context, accessToken, from, to string) (*SummaryResponse, error) {
	q := url.Values{"window": {"accumulated"}, "from": {from}, "to": {to}}
	return c.summary(ctx, accessToken, q)
}

func (c *APIClient) summary(ctx context.Context, accessToken string, q url.Values) (*SummaryResponse, error) {
	var out SummaryResponse
	if err := c.getJSON(ctx, "/api/v1/reports/summary?"+q.Encode(), accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
