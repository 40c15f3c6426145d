package reporting

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
	repo "github.com/JayaniDinukshika/fuelx/internal/repository/sheets"
)

const (
	reconciliationRange = "Reconciliation!A:K"
	exportedDatesRange  = "Reconciliation!A:A"
)

// Reconciler reconciles every product of a day.
type Reconciler interface {
	ForDay(ctx context.Context, date string) (models.DayReconciliation, error)
}

// ProfitSource returns the saved cash book profit of a day, nil when not saved.
type ProfitSource interface {
	Profit(ctx context.Context, date string) (*float64, error)
}

// Store persists daily reports.
type Store interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
	DailyReport(ctx context.Context, date string) (models.DailyReport, error)
}

// Options carries the station specific settings of the report.
type Options struct {
	Station string
	// Thresholds maps product keys to the level under which a tank is flagged.
	Thresholds map[string]float64
}

// Service builds, stores and exports the end-of-day report.
type Service struct {
	store      Store
	reconciler Reconciler
	profits    ProfitSource
	sheet      repo.Repository
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance. sheet and profits may be nil.
func NewService(store Store, reconciler Reconciler, profits ProfitSource, sheet repo.Repository, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		reconciler: reconciler,
		profits:    profits,
		sheet:      sheet,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Build assembles the report of date without storing it.
func (s *Service) Build(ctx context.Context, date string) (models.DailyReport, error) {
	day, err := s.reconciler.ForDay(ctx, date)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("reconcile %s: %w", date, err)
	}

	report := models.DailyReport{
		Date:       day.Date,
		Station:    s.opts.Station,
		Products:   day.Products,
		TotalUsage: day.TotalUsage,
		Warnings:   LowLevelWarnings(day.Products, s.opts.Thresholds),
		CreatedAt:  s.now(),
	}

	if s.profits != nil {
		profit, err := s.profits.Profit(ctx, day.Date)
		if err != nil {
			s.logger.Warn("cash book unavailable for report", zap.String("date", day.Date), zap.Error(err))
		} else {
			report.Profit = profit
		}
	}

	return report, nil
}

// Run builds and stores the report of date, then appends it to the sheet
// when one is configured. A failed export does not fail the run.
func (s *Service) Run(ctx context.Context, date string) (models.DailyReport, error) {
	report, err := s.Build(ctx, date)
	if err != nil {
		return models.DailyReport{}, err
	}

	if err := s.store.SaveDailyReport(ctx, report); err != nil {
		return models.DailyReport{}, err
	}

	if err := s.export(ctx, report); err != nil {
		s.logger.Error("failed to export report to sheet", zap.String("date", report.Date), zap.Error(err))
	}

	s.logger.Info("daily report stored",
		zap.String("date", report.Date),
		zap.Float64("total_usage", report.TotalUsage),
		zap.Int("warnings", len(report.Warnings)))
	return report, nil
}

// Get returns the stored report of date.
func (s *Service) Get(ctx context.Context, date string) (models.DailyReport, error) {
	if _, err := reconcile.ParseDateKey(date, time.UTC); err != nil {
		return models.DailyReport{}, err
	}
	return s.store.DailyReport(ctx, date)
}

// LowLevelWarnings flags every product whose closing level is known and
// below its configured threshold.
func LowLevelWarnings(products []models.Reconciliation, thresholds map[string]float64) []models.LowLevelWarning {
	warnings := make([]models.LowLevelWarning, 0)
	for _, rec := range products {
		threshold, ok := thresholds[rec.ProductKey]
		if !ok || threshold <= 0 || rec.TodayLevel == nil {
			continue
		}
		if *rec.TodayLevel < threshold {
			warnings = append(warnings, models.LowLevelWarning{
				Product:   rec.Product,
				Level:     *rec.TodayLevel,
				Threshold: threshold,
			})
		}
	}
	return warnings
}

// Summary renders report as a short text message.
func Summary(report models.DailyReport) string {
	var b strings.Builder

	title := "Daily fuel report"
	if report.Station != "" {
		title += " - " + report.Station
	}
	fmt.Fprintf(&b, "%s (%s)\n", title, report.Date)

	for _, rec := range report.Products {
		fmt.Fprintf(&b, "%s: usage %s, refill %s L", rec.Product, liters(rec.Usage), formatFloat(rec.EffectiveRefill))
		if rec.InferenceUsed {
			b.WriteString(" (inferred)")
		}
		if rec.ChangeDirection != reconcile.DirectionUnknown {
			fmt.Fprintf(&b, ", %s", strings.ToLower(rec.ChangeDirection.Label()))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total usage: %s L\n", formatFloat(report.TotalUsage))
	if report.Profit != nil {
		fmt.Fprintf(&b, "Profit: %.2f\n", *report.Profit)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(&b, "Low level: %s at %s L (warning %s L)\n", w.Product, formatFloat(w.Level), formatFloat(w.Threshold))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (s *Service) export(ctx context.Context, report models.DailyReport) error {
	if s.sheet == nil {
		return nil
	}

	rows, err := s.sheet.ReadRange(ctx, exportedDatesRange)
	if err != nil {
		return fmt.Errorf("load exported dates: %w", err)
	}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		exported, err := parseDate(row[0])
		if err != nil {
			continue
		}
		if exported.Format(reconcile.DateLayout) == report.Date {
			s.logger.Debug("report already exported", zap.String("date", report.Date))
			return nil
		}
	}

	return s.sheet.AppendRows(ctx, reconciliationRange, SheetRows(report))
}

// SheetRows lays out one spreadsheet row per product. Unknown figures are blank.
func SheetRows(report models.DailyReport) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.Products))
	for _, rec := range report.Products {
		rows = append(rows, []interface{}{
			report.Date,
			string(rec.Product),
			cell(rec.YesterdayLevel),
			cell(rec.TodayLevel),
			rec.RecordedRefill,
			cell(rec.TankDelta),
			rec.EffectiveRefill,
			cell(rec.Usage),
			strconv.FormatBool(rec.InferenceUsed),
			rec.ChangeDirection.Label(),
			rec.Deliveries,
		})
	}
	return rows
}

func cell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func liters(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return formatFloat(*v) + " L"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseDate(value interface{}) (time.Time, error) {
	str := fmt.Sprint(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(str) > 10 {
		str = str[:10]
	}
	return time.Parse(reconcile.DateLayout, str)
}
