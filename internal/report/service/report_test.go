package service

import (
	"context"
	"testing"
	"time"

	"github.com/dailyops/opsreport/internal/report/domain"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReportServiceSubmit(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &ReportService{Store: st}
	u := createUser(t, st, "reportes.cusiana", "cusiana2024", domain.RoleFormUser, "VPI Cusiana")
	ctx := context.Background()

	t.Run("valid report is stored with id and normalized date", func(t *testing.T) {
		rep, err := svc.Submit(ctx, u.ID, domain.DailyReport{
			Reporter:    "Coordinación Cusiana",
			Area:        "VPI Cusiana",
			ReportDate:  time.Date(2025, 3, 10, 17, 45, 3, 0, time.UTC),
			HoursWorked: 8,
			Incidents:   []domain.Incident{{Type: "permiso", Person: "J. Rojas", Duration: 2}},
			Hires:       1,
		})
		require.NoError(t, err)
		require.NotEmpty(t, rep.ID)
		require.Equal(t, u.ID, rep.UserID)
		require.Equal(t, day("2025-03-10"), rep.ReportDate)

		stored, err := st.Reports().GetReportByID(ctx, rep.ID)
		require.NoError(t, err)
		require.Equal(t, rep.Reporter, stored.Reporter)
		require.Len(t, stored.Incidents, 1)
	})

	t.Run("rejections", func(t *testing.T) {
		base := domain.DailyReport{
			Reporter:    "Coordinación Cusiana",
			Area:        "VPI Cusiana",
			ReportDate:  day("2025-03-10"),
			HoursWorked: 8,
		}

		cases := []struct {
			name   string
			mutate func(*domain.DailyReport)
		}{
			{"missing reporter", func(r *domain.DailyReport) { r.Reporter = "  " }},
			{"missing area", func(r *domain.DailyReport) { r.Area = "" }},
			{"missing date", func(r *domain.DailyReport) { r.ReportDate = time.Time{} }},
			{"future date", func(r *domain.DailyReport) { r.ReportDate = time.Now().AddDate(0, 0, 2) }},
			{"negative hours", func(r *domain.DailyReport) { r.HoursWorked = -1 }},
			{"too many hours", func(r *domain.DailyReport) { r.HoursWorked = 25 }},
			{"negative hires", func(r *domain.DailyReport) { r.Hires = -1 }},
			{"negative retirements", func(r *domain.DailyReport) { r.Retirements = -2 }},
			{"incident without type", func(r *domain.DailyReport) {
				r.Incidents = []domain.Incident{{Person: "N.N."}}
			}},
			{"incident with negative duration", func(r *domain.DailyReport) {
				r.Incidents = []domain.Incident{{Type: "permiso", Duration: -1}}
			}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rep := base
				tc.mutate(&rep)
				_, err := svc.Submit(ctx, u.ID, rep)
				require.ErrorIs(t, err, ErrValidation)
			})
		}
	})
}

func TestReportServiceListAndSummarize(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &ReportService{Store: st}
	u := createUser(t, st, "reportes.barranca", "barranca2024", domain.RoleFormUser, "Mares Barrancabermeja")
	ctx := context.Background()

	submit := func(area, date string, hours float64, incidents int, hires, retirements int) {
		t.Helper()
		rep := domain.DailyReport{
			Reporter:    "Coordinación " + area,
			Area:        area,
			ReportDate:  day(date),
			HoursWorked: hours,
			Hires:       hires,
			Retirements: retirements,
		}
		for i := 0; i < incidents; i++ {
			rep.Incidents = append(rep.Incidents, domain.Incident{Type: "incapacidad"})
		}
		_, err := svc.Submit(ctx, u.ID, rep)
		require.NoError(t, err)
	}

	submit("Mares", "2025-03-10", 8, 1, 1, 0)
	submit("Mares", "2025-03-11", 7.5, 0, 0, 1)
	submit("Cusiana", "2025-03-10", 9, 2, 0, 0)
	submit("Cusiana", "2025-03-12", 8, 0, 2, 0)

	t.Run("list newest first", func(t *testing.T) {
		got, err := svc.List(ctx, domain.ReportFilter{})
		require.NoError(t, err)
		require.Len(t, got, 4)
		require.Equal(t, day("2025-03-12"), got[0].ReportDate)
	})

	t.Run("list filters by area and range", func(t *testing.T) {
		got, err := svc.List(ctx, domain.ReportFilter{Area: "Mares"})
		require.NoError(t, err)
		require.Len(t, got, 2)

		got, err = svc.List(ctx, domain.ReportFilter{
			DateFrom: day("2025-03-11"),
			DateTo:   day("2025-03-12"),
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("daily summary covers one date", func(t *testing.T) {
		got, err := svc.Summarize(ctx, WindowDaily, day("2025-03-10"), time.Time{})
		require.NoError(t, err)
		require.Equal(t, []domain.AreaSummary{
			{Area: "Cusiana", Reports: 1, Hours: 9, Incidents: 2},
			{Area: "Mares", Reports: 1, Hours: 8, Incidents: 1, Hires: 1},
		}, got)
	})

	t.Run("accumulated summary covers the range", func(t *testing.T) {
		got, err := svc.Summarize(ctx, WindowAccumulated, day("2025-03-10"), day("2025-03-12"))
		require.NoError(t, err)
		require.Equal(t, []domain.AreaSummary{
			{Area: "Cusiana", Reports: 2, Hours: 17, Incidents: 2, Hires: 2},
			{Area: "Mares", Reports: 2, Hours: 15.5, Incidents: 1, Hires: 1, Retirements: 1},
		}, got)
	})

	t.Run("window validation", func(t *testing.T) {
		_, err := svc.Summarize(ctx, WindowDaily, time.Time{}, time.Time{})
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Summarize(ctx, WindowAccumulated, day("2025-03-12"), day("2025-03-10"))
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Summarize(ctx, "weekly", day("2025-03-10"), day("2025-03-12"))
		require.ErrorIs(t, err, ErrValidation)
	})
}
