package reconciliation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
)

// LevelSource resolves yesterday's and today's last tank levels.
type LevelSource interface {
	LevelsForDay(ctx context.Context, product models.FuelProduct, date string) (models.DayLevels, error)
}

// DeliverySource lists the bowser deliveries logged for a day.
type DeliverySource interface {
	DeliveriesForDate(ctx context.Context, date string) ([]models.Delivery, error)
}

// Service feeds stored readings and deliveries into the reconcile engine.
type Service struct {
	levels     LevelSource
	deliveries DeliverySource
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(levels LevelSource, deliveries DeliverySource, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		levels:     levels,
		deliveries: deliveries,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// Today returns the current station day.
func (s *Service) Today() string {
	return reconcile.DateKey(s.now(), s.loc)
}

// ResolveDate returns date, or today when it is empty, after validating it.
func (s *Service) ResolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.Today(), nil
	}
	if _, err := reconcile.ParseDateKey(date, s.loc); err != nil {
		return "", err
	}
	return date, nil
}

// ForProduct reconciles a single product on date.
func (s *Service) ForProduct(ctx context.Context, product models.FuelProduct, date string) (models.Reconciliation, error) {
	if !product.Valid() {
		return models.Reconciliation{}, fmt.Errorf("%w: %q", models.ErrUnknownProduct, product)
	}
	date, err := s.ResolveDate(date)
	if err != nil {
		return models.Reconciliation{}, err
	}

	deliveries, unavailable := s.loadDeliveries(ctx, date)
	return s.reconcileProduct(ctx, product, date, deliveries, unavailable)
}

// ForDay reconciles every product on date. Levels of the four tanks are
// fetched concurrently; the delivery log is read once and shared.
func (s *Service) ForDay(ctx context.Context, date string) (models.DayReconciliation, error) {
	date, err := s.ResolveDate(date)
	if err != nil {
		return models.DayReconciliation{}, err
	}

	deliveries, unavailable := s.loadDeliveries(ctx, date)

	results := make([]models.Reconciliation, len(models.Products))
	g, gctx := errgroup.WithContext(ctx)
	for i, product := range models.Products {
		g.Go(func() error {
			rec, err := s.reconcileProduct(gctx, product, date, deliveries, unavailable)
			if err != nil {
				return err
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.DayReconciliation{}, err
	}

	return models.DayReconciliation{
		Date:       date,
		Products:   results,
		TotalUsage: TotalUsage(results),
	}, nil
}

// TotalUsage sums the known usage of every reconciliation; unknown usage adds nothing.
func TotalUsage(recs []models.Reconciliation) float64 {
	total := 0.0
	for _, r := range recs {
		total += r.UsageOrZero()
	}
	return total
}

// QuantitiesFor returns the quantities of the deliveries of product on date.
func QuantitiesFor(deliveries []models.Delivery, product models.FuelProduct, date string) []float64 {
	quantities := make([]float64, 0, len(deliveries))
	for _, d := range deliveries {
		if strings.TrimSpace(d.Date) != date || !product.Matches(d.Product) {
			continue
		}
		quantities = append(quantities, d.Quantity)
	}
	return quantities
}

func (s *Service) reconcileProduct(ctx context.Context, product models.FuelProduct, date string, deliveries []models.Delivery, unavailable bool) (models.Reconciliation, error) {
	levels, err := s.levels.LevelsForDay(ctx, product, date)
	if err != nil {
		return models.Reconciliation{}, fmt.Errorf("levels for %s on %s: %w", product.Key(), date, err)
	}

	quantities := QuantitiesFor(deliveries, product, date)
	result := reconcile.Reconcile(levels.Yesterday, levels.Today, quantities)

	if result.InferenceUsed {
		s.logger.Info("refill inferred from tank rise",
			zap.String("product", product.Key()),
			zap.String("date", date),
			zap.Float64("recorded", result.RecordedRefill),
			zap.Float64("effective", result.EffectiveRefill))
	}

	return models.Reconciliation{
		Date:                  date,
		Product:               product,
		ProductKey:            product.Key(),
		Deliveries:            len(quantities),
		DeliveriesUnavailable: unavailable,
		Result:                result,
	}, nil
}

func (s *Service) loadDeliveries(ctx context.Context, date string) ([]models.Delivery, bool) {
	deliveries, err := s.deliveries.DeliveriesForDate(ctx, date)
	if err != nil {
		s.logger.Warn("delivery log unavailable, recorded refill taken as zero",
			zap.String("date", date), zap.Error(err))
		return nil, true
	}
	return deliveries, false
}
