package http

import (
	"net/http"
	"time"

	"github.com/dailyops/opsreport/internal/report/domain"
	"github.com/dailyops/opsreport/internal/report/service"
	"github.com/dailyops/opsreport/pkg/authclient"
	"github.com/dailyops/opsreport/pkg/httpx"
)

const wireDateLayout = "2006-01-02"

func domainIncidents(in []authclient.Incident) []domain.Incident {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Incident, 0, len(in))
	for _, inc := range in {
		out = append(out, domain.Incident{
			Type:     inc.Type,
			Person:   inc.Person,
			Duration: inc.Duration,
		})
	}
	return out
}

func wireIncidents(in []domain.Incident) []authclient.Incident {
	if len(in) == 0 {
		return nil
	}
	out := make([]authclient.Incident, 0, len(in))
	for _, inc := range in {
		out = append(out, authclient.Incident{
			Type:     inc.Type,
			Person:   inc.Person,
			Duration: inc.Duration,
		})
	}
	return out
}

func wireReport(rep domain.DailyReport) authclient.Report {
	return authclient.Report{
		ID:            rep.ID,
		Reporter:      rep.Reporter,
		Area:          rep.Area,
		Operation:     rep.Operation,
		ReportDate:    rep.ReportDate.Format(wireDateLayout),
		HoursWorked:   rep.HoursWorked,
		Incidents:     wireIncidents(rep.Incidents),
		Hires:         rep.Hires,
		Retirements:   rep.Retirements,
		RelevantFacts: rep.RelevantFacts,
		CreatedAt:     rep.CreatedAt,
	}
}

func wireSummary(in []domain.AreaSummary) []authclient.AreaSummary {
	out := make([]authclient.AreaSummary, 0, len(in))
	for _, row := range in {
		out = append(out, authclient.AreaSummary{
			Area:        row.Area,
			Reports:     row.Reports,
			Hours:       row.Hours,
			Incidents:   row.Incidents,
			Hires:       row.Hires,
			Retirements: row.Retirements,
		})
	}
	return out
}

type ReportsHandler struct {
	ReportService *service.ReportService
}

func (h *ReportsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req authclient.ReportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	reportDate, err := time.ParseInLocation(wireDateLayout, req.ReportDate, time.UTC)
	if err != nil {
		writeBadRequest(w, "report_date must be YYYY-MM-DD")
		return
	}

	rep := domain.DailyReport{
		Reporter:      req.Reporter,
		Area:          req.Area,
		Operation:     req.Operation,
		ReportDate:    reportDate,
		HoursWorked:   req.HoursWorked,
		Incidents:     domainIncidents(req.Incidents),
		Hires:         req.Hires,
		Retirements:   req.Retirements,
		RelevantFacts: req.RelevantFacts,
	}

	created, err := h.ReportService.Submit(r.Context(), httpx.UserIDFromContext(r.Context()), rep)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, wireReport(created))
}

func (h *ReportsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ReportFilter{Area: q.Get("area")}
	var err error
	if filter.DateFrom, err = parseQueryDate(q.Get("from")); err != nil {
		writeBadRequest(w, "from must be YYYY-MM-DD")
		return
	}
	if filter.DateTo, err = parseQueryDate(q.Get("to")); err != nil {
		writeBadRequest(w, "to must be YYYY-MM-DD")
		return
	}

	reports, err := h.ReportService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authclient.Report, 0, len(reports))
	for _, rep := range reports {
		out = append(out, wireReport(rep))
	}
	httpx.WriteJSON(w, http.StatusOK, authclient.ReportListResponse{Reports: out})
}

func (h *ReportsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	window := q.Get("window")
	if window == "" {
		window = service.WindowDaily
	}

	var from, to time.Time
	var err error
	switch window {
	case service.WindowDaily:
		if from, err = parseQueryDate(q.Get("date")); err != nil {
			writeBadRequest(w, "date must be YYYY-MM-DD")
			return
		}
		if from.IsZero() {
			// Default to today.
			from = time.Now().UTC()
		}
	default:
		if from, err = parseQueryDate(q.Get("from")); err != nil {
			writeBadRequest(w, "from must be YYYY-MM-DD")
			return
		}
		if to, err = parseQueryDate(q.Get("to")); err != nil {
			writeBadRequest(w, "to must be YYYY-MM-DD")
			return
		}
	}

	summary, err := h.ReportService.Summarize(r.Context(), window, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authclient.SummaryResponse{
		Window:  window,
		Summary: wireSummary(summary),
	})
}

func parseQueryDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(wireDateLayout, s, time.UTC)
}
