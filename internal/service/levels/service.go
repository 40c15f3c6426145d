// Package levels is the tank-level source of the reconciliation: it answers
// "what was the last gauge level of this product on this station day",
// preferring the gauge feed and falling back to OCR scans of dip readings.
package levels

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
)

// maxSeriesDays bounds analytics queries to roughly five years of days.
const maxSeriesDays = 5*366 + 1

// Repository is the persistence the level source reads from and writes to.
type Repository interface {
	InsertTankReading(ctx context.Context, reading models.TankReading) (models.TankReading, error)
	TankLevelSeries(ctx context.Context, fuelTypes []string, start, end time.Time, loc *time.Location) ([]models.LevelSeries, error)
	InsertScan(ctx context.Context, scan models.ScanReading) (models.ScanReading, error)
	ListScans(ctx context.Context, start, end time.Time) ([]models.ScanReading, error)
}

// ReadingExtractor recovers a liters figure from OCR text that is not a plain number.
type ReadingExtractor interface {
	ExtractLiters(ctx context.Context, text string) (float64, error)
}

// Service resolves daily tank levels.
type Service struct {
	repo      Repository
	extractor ReadingExtractor
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a level source. extractor may be nil.
func NewService(repo Repository, extractor ReadingExtractor, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      repo,
		extractor: extractor,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Location returns the station zone used to cut days.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns the current station day.
func (s *Service) Today() string {
	return reconcile.DateKey(s.now(), s.loc)
}

// LevelsForDay returns the last known level of product on the day before date
// and on date itself. Source failures are logged and degrade to unknown
// levels; only an invalid date is an error.
func (s *Service) LevelsForDay(ctx context.Context, product models.FuelProduct, date string) (models.DayLevels, error) {
	yesterday, err := reconcile.PreviousDateKey(date)
	if err != nil {
		return models.DayLevels{}, err
	}
	start, _, err := reconcile.DayBounds(yesterday, s.loc)
	if err != nil {
		return models.DayLevels{}, err
	}
	_, end, err := reconcile.DayBounds(date, s.loc)
	if err != nil {
		return models.DayLevels{}, err
	}

	var out models.DayLevels

	series, err := s.repo.TankLevelSeries(ctx, []string{string(product)}, start, end, s.loc)
	if err != nil {
		s.logger.Warn("tank level series unavailable, falling back to scans",
			zap.String("product", string(product)), zap.String("date", date), zap.Error(err))
	} else {
		points := pointsFor(series, product)
		out.Yesterday = points[yesterday]
		out.Today = points[date]
	}

	if out.Yesterday != nil && out.Today != nil {
		return out, nil
	}

	scans, err := s.repo.ListScans(ctx, start, end)
	if err != nil {
		s.logger.Warn("scanned readings unavailable",
			zap.String("product", string(product)), zap.String("date", date), zap.Error(err))
		return out, nil
	}

	if out.Yesterday == nil {
		out.Yesterday = LatestScanLevel(scans, product, yesterday, s.loc)
	}
	if out.Today == nil {
		out.Today = LatestScanLevel(scans, product, date, s.loc)
	}
	return out, nil
}

// Series returns the per-day level series of each product over [from, to].
func (s *Service) Series(ctx context.Context, products []models.FuelProduct, from, to string) ([]models.LevelSeries, error) {
	start, _, err := reconcile.DayBounds(from, s.loc)
	if err != nil {
		return nil, err
	}
	_, end, err := reconcile.DayBounds(to, s.loc)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: from %s is after to %s", models.ErrInvalidInput, from, to)
	}
	if end.Sub(start) > maxSeriesDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range %s..%s is too long", models.ErrInvalidInput, from, to)
	}

	fuelTypes := make([]string, len(products))
	for i, p := range products {
		fuelTypes[i] = string(p)
	}

	series, err := s.repo.TankLevelSeries(ctx, fuelTypes, start, end, s.loc)
	if err != nil {
		return nil, fmt.Errorf("load tank level series: %w", err)
	}
	return series, nil
}

// RecordReading stores a gauge reading against its canonical product.
func (s *Service) RecordReading(ctx context.Context, reading models.TankReading) (models.TankReading, error) {
	product, ok := models.ParseProduct(reading.FuelType)
	if !ok {
		return models.TankReading{}, fmt.Errorf("%w: %q", models.ErrUnknownProduct, reading.FuelType)
	}
	if math.IsNaN(reading.Level) || math.IsInf(reading.Level, 0) || reading.Level < 0 {
		return models.TankReading{}, fmt.Errorf("%w: level must be a non-negative number", models.ErrInvalidInput)
	}

	reading.FuelType = string(product)
	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = s.now()
	}

	saved, err := s.repo.InsertTankReading(ctx, reading)
	if err != nil {
		return models.TankReading{}, err
	}

	s.logger.Info("tank reading recorded",
		zap.String("product", reading.FuelType),
		zap.Float64("level", reading.Level),
		zap.String("day", reconcile.DateKey(reading.RecordedAt, s.loc)))
	return saved, nil
}

// RecordScan stores an OCR scan. Text that is not a plain number is handed
// to the extractor when one is configured; otherwise the level stays unknown.
func (s *Service) RecordScan(ctx context.Context, fuelType, text string, createdAt time.Time) (models.ScanReading, error) {
	product, ok := models.ParseProduct(fuelType)
	if !ok {
		return models.ScanReading{}, fmt.Errorf("%w: %q", models.ErrUnknownProduct, fuelType)
	}
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	scan := models.ScanReading{
		FuelType:    string(product),
		ScannedText: text,
		Level:       s.interpret(ctx, text),
		CreatedAt:   createdAt,
	}

	saved, err := s.repo.InsertScan(ctx, scan)
	if err != nil {
		return models.ScanReading{}, err
	}
	if saved.Level == nil {
		s.logger.Warn("scan stored without a readable level", zap.String("product", scan.FuelType))
	}
	return saved, nil
}

// Scans returns every stored scan, newest first.
func (s *Service) Scans(ctx context.Context) ([]models.ScanReading, error) {
	return s.repo.ListScans(ctx, time.Time{}, time.Time{})
}

// LatestByFuel returns the newest readable scan of each product that has one.
func (s *Service) LatestByFuel(ctx context.Context) ([]models.ScanReading, error) {
	scans, err := s.repo.ListScans(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load scans: %w", err)
	}

	latest := make([]models.ScanReading, 0, len(models.Products))
	for _, p := range models.Products {
		if scan, ok := newestScan(scans, p, func(models.ScanReading) bool { return true }); ok {
			latest = append(latest, scan)
		}
	}
	return latest, nil
}

// LatestScanLevel returns the level of the newest readable scan of product
// taken on the station day dateKey, or nil when there is none.
func LatestScanLevel(scans []models.ScanReading, product models.FuelProduct, dateKey string, loc *time.Location) *float64 {
	scan, ok := newestScan(scans, product, func(sc models.ScanReading) bool {
		return reconcile.DateKey(sc.CreatedAt, loc) == dateKey
	})
	if !ok {
		return nil
	}
	level := *scan.Level
	return &level
}

func newestScan(scans []models.ScanReading, product models.FuelProduct, keep func(models.ScanReading) bool) (models.ScanReading, bool) {
	var (
		best  models.ScanReading
		found bool
	)
	for _, sc := range scans {
		if sc.Level == nil || !product.Matches(sc.FuelType) || !keep(sc) {
			continue
		}
		if !found || sc.CreatedAt.After(best.CreatedAt) {
			best, found = sc, true
		}
	}
	return best, found
}

func pointsFor(series []models.LevelSeries, product models.FuelProduct) map[string]*float64 {
	points := make(map[string]*float64)
	for _, sr := range series {
		if sr.FuelType != string(product) && !product.Matches(sr.FuelType) {
			continue
		}
		for _, p := range sr.Points {
			level := p.Level
			points[p.Date] = &level
		}
		break
	}
	return points
}

func (s *Service) interpret(ctx context.Context, text string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if cleaned == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return validLevel(v)
	}

	if s.extractor == nil {
		return nil
	}
	v, err := s.extractor.ExtractLiters(ctx, text)
	if err != nil {
		s.logger.Warn("could not extract liters from scan text", zap.Error(err))
		return nil
	}
	return validLevel(v)
}

func validLevel(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}
