package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dailyops/opsreport/internal/report/domain"
)

type reportsRepo struct {
	db dbtx
}

const reportColumns = `id, user_id, reporter, area, operation, report_date, hours_worked,
	incidents, hires, retirements, relevant_facts, created_at`

func (r *reportsRepo) CreateReport(ctx context.Context, rep domain.DailyReport) error {
	incidents := rep.Incidents
	if incidents == nil {
		incidents = []domain.Incident{}
	}
	incidentsJSON, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("encode incidents: %w", err)
	}

	createdAt := rep.CreatedAt
	if createdAt.IsZero() {
		createdAt = fromMillis(nowMillis())
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reports (id, user_id, reporter, area, operation, report_date, hours_worked,
		                      incidents, hires, retirements, relevant_facts, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.UserID, rep.Reporter, rep.Area, rep.Operation,
		toDate(rep.ReportDate), rep.HoursWorked, string(incidentsJSON),
		rep.Hires, rep.Retirements, rep.RelevantFacts, toMillis(createdAt),
	)
	return mapConstraint(err)
}

func (r *reportsRepo) GetReportByID(ctx context.Context, id string) (domain.DailyReport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	return scanReport(row)
}

func (r *reportsRepo) ListReports(ctx context.Context, f domain.ReportFilter) ([]domain.DailyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	var (
		where []string
		args  []any
	)
	if f.Area != "" {
		where = append(where, `area = ?`)
		args = append(args, f.Area)
	}
	if f.UserID != "" {
		where = append(where, `user_id = ?`)
		args = append(args, f.UserID)
	}
	if !f.DateFrom.IsZero() {
		where = append(where, `report_date >= ?`)
		args = append(args, toDate(f.DateFrom))
	}
	if !f.DateTo.IsZero() {
		where = append(where, `report_date <= ?`)
		args = append(args, toDate(f.DateTo))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY report_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DailyReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func scanReport(row interface{ Scan(...any) error }) (domain.DailyReport, error) {
	var (
		rep           domain.DailyReport
		reportDate    string
		incidentsJSON string
		createdAt     int64
	)
	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Reporter, &rep.Area, &rep.Operation,
		&reportDate, &rep.HoursWorked, &incidentsJSON,
		&rep.Hires, &rep.Retirements, &rep.RelevantFacts, &createdAt,
	)
	if err != nil {
		return domain.DailyReport{}, mapNotFound(err)
	}

	if rep.ReportDate, err = fromDate(reportDate); err != nil {
		return domain.DailyReport{}, fmt.Errorf("decode report date: %w", err)
	}
	if err := json.Unmarshal([]byte(incidentsJSON), &rep.Incidents); err != nil {
		return domain.DailyReport{}, fmt.Errorf("decode incidents: %w", err)
	}
	rep.CreatedAt = fromMillis(createdAt)
	return rep, nil
}
