package attendance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
)

// Repository stores one attendance mark per staff member and day.
type Repository interface {
	MarkAttendance(ctx context.Context, record models.AttendanceRecord) error
	AttendanceBetween(ctx context.Context, userID, fromKey, toKey string) ([]models.AttendanceRecord, error)
}

// Service records attendance and derives monthly pay.
type Service struct {
	repo   Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, logger: logger, now: time.Now}
}

// Mark upserts the attendance of record.UserID on record.DateKey, which
// defaults to today in the station zone. Absent days carry no salary.
func (s *Service) Mark(ctx context.Context, record models.AttendanceRecord) (models.AttendanceRecord, error) {
	record.UserID = strings.TrimSpace(record.UserID)
	if record.UserID == "" {
		return models.AttendanceRecord{}, fmt.Errorf("%w: userId is required", models.ErrInvalidInput)
	}

	now := s.now()
	if record.DateKey == "" {
		record.DateKey = reconcile.DateKey(now, s.loc)
	} else if _, err := reconcile.ParseDateKey(record.DateKey, s.loc); err != nil {
		return models.AttendanceRecord{}, err
	}

	if math.IsNaN(record.DailySalary) || math.IsInf(record.DailySalary, 0) || record.DailySalary < 0 {
		return models.AttendanceRecord{}, fmt.Errorf("%w: dailySalary must be a non-negative number", models.ErrInvalidInput)
	}
	if !record.Present {
		record.DailySalary = 0
	}
	record.UpdatedAt = now

	if err := s.repo.MarkAttendance(ctx, record); err != nil {
		return models.AttendanceRecord{}, err
	}

	s.logger.Info("attendance marked",
		zap.String("user_id", record.UserID),
		zap.String("date", record.DateKey),
		zap.Bool("present", record.Present))
	return record, nil
}

// MonthlySummary totals the attendance of userID over the given month.
// A zero year and month mean the current station month.
func (s *Service) MonthlySummary(ctx context.Context, userID string, year int, month time.Month) (models.PayrollSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.PayrollSummary{}, fmt.Errorf("%w: userId is required", models.ErrInvalidInput)
	}
	if year == 0 && month == 0 {
		now := s.now().In(s.loc)
		year, month = now.Year(), now.Month()
	}
	if month < time.January || month > time.December || year < 2000 || year > 9999 {
		return models.PayrollSummary{}, fmt.Errorf("%w: invalid month %d-%02d", models.ErrInvalidInput, year, month)
	}

	from, to := reconcile.MonthBounds(year, month)
	records, err := s.repo.AttendanceBetween(ctx, userID, from, to)
	if err != nil {
		return models.PayrollSummary{}, fmt.Errorf("load attendance: %w", err)
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}

	summary := models.PayrollSummary{
		UserID: userID,
		Month:  from[:7],
		Days:   records,
	}
	for _, r := range records {
		summary.DaysRecorded++
		if r.Present {
			summary.DaysPresent++
			summary.TotalSalary += r.DailySalary
		}
	}
	summary.TotalSalary = math.Round(summary.TotalSalary*100) / 100
	return summary, nil
}
