package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dailyops/opsreport/internal/report/domain"
	"github.com/dailyops/opsreport/internal/report/store"
	"github.com/dailyops/opsreport/pkg/idx"
)

// ErrValidation marks a report rejected on its content. The wrapped message
// names the offending field.
var ErrValidation = errors.New("validation_error")

// Summary windows.
const (
	WindowDaily       = "daily"
	WindowAccumulated = "accumulated"
)

// MaxDailyHours caps the hours-worked figure on one report.
const MaxDailyHours = 24

// ReportService validates, persists and aggregates daily operation reports.
type ReportService struct {
	Store store.Store
}

// Submit validates and stores a new daily report on behalf of userID. The
// report date is normalized to midnight UTC; ID and creation time are
// assigned here.
func (s *ReportService) Submit(ctx context.Context, userID string, rep domain.DailyReport) (domain.DailyReport, error) {
	if err := validateReport(&rep); err != nil {
		return domain.DailyReport{}, err
	}

	rep.ID = idx.New().String()
	rep.UserID = userID
	rep.CreatedAt = time.Now().UTC()

	if err := s.Store.Reports().CreateReport(ctx, rep); err != nil {
		return domain.DailyReport{}, err
	}
	return rep, nil
}

// List returns reports matching the filter, newest first.
func (s *ReportService) List(ctx context.Context, f domain.ReportFilter) ([]domain.DailyReport, error) {
	return s.Store.Reports().ListReports(ctx, f)
}

// Summarize aggregates reports per area. The daily window covers the single
// given date; the accumulated window covers the from/to range inclusive.
func (s *ReportService) Summarize(ctx context.Context, window string, from, to time.Time) ([]domain.AreaSummary, error) {
	switch window {
	case WindowDaily:
		if from.IsZero() {
			return nil, fmt.Errorf("%w: daily summary needs a date", ErrValidation)
		}
		to = from
	case WindowAccumulated:
		if from.IsZero() || to.IsZero() {
			return nil, fmt.Errorf("%w: accumulated summary needs a date range", ErrValidation)
		}
		if to.Before(from) {
			return nil, fmt.Errorf("%w: summary range ends before it starts", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown summary window %q", ErrValidation, window)
	}

	reports, err := s.Store.Reports().ListReports(ctx, domain.ReportFilter{
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, err
	}

	byArea := make(map[string]*domain.AreaSummary)
	for _, rep := range reports {
		sum, ok := byArea[rep.Area]
		if !ok {
			sum = &domain.AreaSummary{Area: rep.Area}
			byArea[rep.Area] = sum
		}
		sum.Reports++
		sum.Hours += rep.HoursWorked
		sum.Incidents += len(rep.Incidents)
		sum.Hires += rep.Hires
		sum.Retirements += rep.Retirements
	}

	out := make([]domain.AreaSummary, 0, len(byArea))
	for _, sum := range byArea {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Area < out[j].Area })
	return out, nil
}

func validateReport(rep *domain.DailyReport) error {
	rep.Reporter = strings.TrimSpace(rep.Reporter)
	rep.Area = strings.TrimSpace(rep.Area)
	rep.Operation = strings.TrimSpace(rep.Operation)
	rep.RelevantFacts = strings.TrimSpace(rep.RelevantFacts)

	if rep.Reporter == "" {
		return fmt.Errorf("%w: reporter is required", ErrValidation)
	}
	if rep.Area == "" {
		return fmt.Errorf("%w: area is required", ErrValidation)
	}
	if rep.ReportDate.IsZero() {
		return fmt.Errorf("%w: report date is required", ErrValidation)
	}
	rep.ReportDate = midnightUTC(rep.ReportDate)
	if rep.ReportDate.After(midnightUTC(time.Now())) {
		return fmt.Errorf("%w: report date is in the future", ErrValidation)
	}
	if rep.HoursWorked < 0 || rep.HoursWorked > MaxDailyHours {
		return fmt.Errorf("%w: hours worked must be between 0 and %d", ErrValidation, MaxDailyHours)
	}
	if rep.Hires < 0 || rep.Retirements < 0 {
		return fmt.Errorf("%w: hires and retirements cannot be negative", ErrValidation)
	}
	for i, inc := range rep.Incidents {
		if strings.TrimSpace(inc.Type) == "" {
			return fmt.Errorf("%w: incident %d has no type", ErrValidation, i+1)
		}
		if inc.Duration < 0 {
			return fmt.Errorf("%w: incident %d has a negative duration", ErrValidation, i+1)
		}
	}
	return nil
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
