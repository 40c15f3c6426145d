// Package cashbook keeps the daily income and expense sheet. Liters sold
// default to the reconciled usage of the day; every total is derived here
// and never trusted from the client.
package cashbook

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
	"github.com/JayaniDinukshika/fuelx/internal/repository/mongodb"
)

// Repository persists one cash book per date.
type Repository interface {
	UpsertCashbook(ctx context.Context, entry models.CashbookEntry) error
	CashbookForDate(ctx context.Context, date string) (models.CashbookEntry, error)
}

// UsageSource reconciles a day so unsold liters can be prefilled.
type UsageSource interface {
	ForDay(ctx context.Context, date string) (models.DayReconciliation, error)
}

type Service struct {
	repo   Repository
	usage  UsageSource
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, usage UsageSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, usage: usage, logger: logger, now: time.Now}
}

// Save computes and stores the cash book of req.Date.
func (s *Service) Save(ctx context.Context, req models.CashbookRequest) (models.CashbookEntry, error) {
	if _, err := reconcile.ParseDateKey(req.Date, time.UTC); err != nil {
		return models.CashbookEntry{}, err
	}
	if err := validateRequest(req); err != nil {
		return models.CashbookEntry{}, err
	}

	entry := models.CashbookEntry{
		Date:                req.Date,
		PricePerLiterByFuel: req.PricePerLiterByFuel,
		Manual:              req.Manual,
	}

	var usage map[models.FuelProduct]float64
	for _, p := range models.Products {
		if v := req.Liters(p); v != nil {
			entry.LitersByFuel.Set(p, *v)
			continue
		}
		if usage == nil {
			usage = s.dayUsage(ctx, req.Date)
		}
		entry.LitersByFuel.Set(p, usage[p])
	}

	Compute(&entry)
	entry.UpdatedAt = s.now()

	if err := s.repo.UpsertCashbook(ctx, entry); err != nil {
		return models.CashbookEntry{}, err
	}
	entry.Source = models.CashbookSaved

	s.logger.Info("cash book saved",
		zap.String("date", entry.Date),
		zap.Float64("profit", entry.Totals.Profit))
	return entry, nil
}

// Get returns the saved cash book of date, or a live preview with liters
// from the day's reconciliation and zero prices when none was saved.
func (s *Service) Get(ctx context.Context, date string) (models.CashbookEntry, error) {
	if _, err := reconcile.ParseDateKey(date, time.UTC); err != nil {
		return models.CashbookEntry{}, err
	}

	entry, err := s.repo.CashbookForDate(ctx, date)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return models.CashbookEntry{}, err
	}

	preview := models.CashbookEntry{Date: date, Source: models.CashbookLive}
	usage := s.dayUsage(ctx, date)
	for _, p := range models.Products {
		preview.LitersByFuel.Set(p, usage[p])
	}
	Compute(&preview)
	return preview, nil
}

// Profit returns the saved profit of date, or nil when no cash book was saved.
func (s *Service) Profit(ctx context.Context, date string) (*float64, error) {
	entry, err := s.repo.CashbookForDate(ctx, date)
	if errors.Is(err, mongodb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	profit := entry.Totals.Profit
	return &profit, nil
}

// Compute fills IncomeByFuel and Totals from liters, prices and manual entries.
// Amounts are rounded to cents.
func Compute(entry *models.CashbookEntry) {
	fuelIncome := decimal.Zero
	for _, p := range models.Products {
		income := money(entry.LitersByFuel.Of(p)).Mul(money(entry.PricePerLiterByFuel.Of(p))).Round(2)
		entry.IncomeByFuel.Set(p, income.InexactFloat64())
		fuelIncome = fuelIncome.Add(income)
	}

	m := entry.Manual
	card := money(m.CardPayment)
	withoutCard := decimal.Max(decimal.Zero, fuelIncome.Sub(card))
	income := fuelIncome.Add(card).Add(money(m.OtherIncome))
	expenses := money(m.Salary).Add(money(m.BowserPayment)).Add(money(m.OtherPayment))

	entry.Totals = models.CashbookTotals{
		TotalFuelIncome:               fuelIncome.Round(2).InexactFloat64(),
		TotalFuelIncomeWithoutPayment: withoutCard.Round(2).InexactFloat64(),
		IncomeMain:                    income.Round(2).InexactFloat64(),
		ExpensesMain:                  expenses.Round(2).InexactFloat64(),
		Profit:                        income.Sub(expenses).Round(2).InexactFloat64(),
	}
}

func (s *Service) dayUsage(ctx context.Context, date string) map[models.FuelProduct]float64 {
	usage := make(map[models.FuelProduct]float64, len(models.Products))
	if s.usage == nil {
		return usage
	}
	day, err := s.usage.ForDay(ctx, date)
	if err != nil {
		s.logger.Warn("reconciliation unavailable for cash book, liters left at zero",
			zap.String("date", date), zap.Error(err))
		return usage
	}
	for _, rec := range day.Products {
		usage[rec.Product] = rec.UsageOrZero()
	}
	return usage
}

func validateRequest(req models.CashbookRequest) error {
	for _, p := range models.Products {
		if v := req.Liters(p); v != nil && !nonNegative(*v) {
			return fmt.Errorf("%w: liters for %s must be a non-negative number", models.ErrInvalidInput, p.Key())
		}
		if !nonNegative(req.PricePerLiterByFuel.Of(p)) {
			return fmt.Errorf("%w: price for %s must be a non-negative number", models.ErrInvalidInput, p.Key())
		}
	}
	m := req.Manual
	for name, v := range map[string]float64{
		"cardPayment":    m.CardPayment,
		"otherIncome":    m.OtherIncome,
		"salary":         m.Salary,
		"browserPayment": m.BowserPayment,
		"otherPayment":   m.OtherPayment,
	} {
		if !nonNegative(v) {
			return fmt.Errorf("%w: %s must be a non-negative number", models.ErrInvalidInput, name)
		}
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
