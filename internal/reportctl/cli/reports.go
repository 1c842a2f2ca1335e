package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dailyops/opsreport/pkg/authclient"
)

const dateLayout = "2006-01-02"

// incidentFlags collects repeated -incident values of the form
// "type[:person[:hours]]".
type incidentFlags []authclient.Incident

func (f *incidentFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, inc := range *f {
		parts = append(parts, inc.Type)
	}
	return strings.Join(parts, ",")
}

func (f *incidentFlags) Set(v string) error {
	parts := strings.SplitN(v, ":", 3)
	inc := authclient.Incident{Type: strings.TrimSpace(parts[0])}
	if inc.Type == "" {
		return fmt.Errorf("incident needs a type, got %q", v)
	}
	if len(parts) > 1 {
		inc.Person = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		hours, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return fmt.Errorf("incident hours %q: %w", parts[2], err)
		}
		inc.Duration = hours
	}
	*f = append(*f, inc)
	return nil
}

func (a *App) cmdSubmit(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	user, _ := a.manager.CurrentUser()

	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(a.out)
	reporter := fs.String("reporter", user.FullName, "who the report is filed for")
	area := fs.String("area", user.Area, "operational area")
	operation := fs.String("operation", "", "operation or site detail")
	date := fs.String("date", time.Now().Format(dateLayout), "report date (YYYY-MM-DD)")
	hours := fs.Float64("hours", 0, "hours worked")
	hires := fs.Int("hires", 0, "personnel hired")
	retirements := fs.Int("retirements", 0, "personnel retired")
	facts := fs.String("facts", "", "relevant facts")
	var incidents incidentFlags
	fs.Var(&incidents, "incident", "incident as type[:person[:hours]], repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := a.api.SubmitReport(ctx, a.accessToken(), authclient.ReportRequest{
		Reporter:      *reporter,
		Area:          *area,
		Operation:     *operation,
		ReportDate:    *date,
		HoursWorked:   *hours,
		Incidents:     incidents,
		Hires:         *hires,
		Retirements:   *retirements,
		RelevantFacts: *facts,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Report %s filed for %s (%s)\n", report.ID, report.ReportDate, report.Area)
	return nil
}

func (a *App) cmdList(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	area := fs.String("area", "", "filter by area")
	from := fs.String("from", "", "first report date (YYYY-MM-DD)")
	to := fs.String("to", "", "last report date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reports, err := a.api.ListReports(ctx, a.accessToken(), authclient.ReportFilter{
		Area: *area,
		From: *from,
		To:   *to,
	})
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(a.out, "No reports.")
		return nil
	}

	for _, rep := range reports {
		fmt.Fprintf(a.out, "%s  %-24s %-20s %5.1fh  incidents:%d\n",
			rep.ReportDate, rep.Area, rep.Reporter, rep.HoursWorked, len(rep.Incidents))
	}
	return nil
}

func (a *App) cmdSummary(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(a.out)
	window := fs.String("window", "daily", "daily or accumulated")
	date := fs.String("date", "", "day for the daily window (default today)")
	from := fs.String("from", "", "range start for the accumulated window")
	to := fs.String("to", "", "range end for the accumulated window")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var summary *authclient.SummaryResponse
	var err error
	switch *window {
	case "daily":
		summary, err = a.api.DailySummary(ctx, a.accessToken(), *date)
	case "accumulated":
		summary, err = a.api.AccumulatedSummary(ctx, a.accessToken(), *from, *to)
	default:
		return fmt.Errorf("unknown window %q", *window)
	}
	if err != nil {
		return err
	}

	if len(summary.Summary) == 0 {
		fmt.Fprintln(a.out, "No reports in the window.")
		return nil
	}

	fmt.Fprintf(a.out, "%-24s %8s %8s %10s %6s %12s\n",
		"AREA", "REPORTS", "HOURS", "INCIDENTS", "HIRES", "RETIREMENTS")
	for _, row := range summary.Summary {
		fmt.Fprintf(a.out, "%-24s %8d %8.1f %10d %6d %12d\n",
			row.Area, row.Reports, row.Hours, row.Incidents, row.Hires, row.Retirements)
	}
	return nil
}
