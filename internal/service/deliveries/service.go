package deliveries

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

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Repository stores bowser deliveries.
type Repository interface {
	InsertDeliveries(ctx context.Context, items []models.Delivery) ([]models.Delivery, error)
	ListDeliveries(ctx context.Context, page, limit int64) ([]models.Delivery, int64, error)
}

// Service is the delivery ledger written from the bowser details page.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Record validates and stores a batch of deliveries. The batch is rejected
// as a whole when any item is invalid.
func (s *Service) Record(ctx context.Context, items []models.Delivery) ([]models.Delivery, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one delivery is required", models.ErrInvalidInput)
	}

	now := s.now()
	batch := make([]models.Delivery, len(items))
	for i, item := range items {
		d, err := normalize(item)
		if err != nil {
			return nil, fmt.Errorf("delivery %d: %w", i+1, err)
		}
		d.CreatedAt = now
		batch[i] = d
	}

	saved, err := s.repo.InsertDeliveries(ctx, batch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("deliveries recorded", zap.Int("count", len(saved)))
	return saved, nil
}

// List returns a page of deliveries, newest first.
func (s *Service) List(ctx context.Context, page, limit int64) ([]models.Delivery, models.Pagination, error) {
	if page < 1 || limit < 1 {
		return nil, models.Pagination{}, fmt.Errorf("%w: page and limit must be positive integers", models.ErrInvalidInput)
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	items, total, err := s.repo.ListDeliveries(ctx, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return items, models.NewPagination(total, page, limit), nil
}

func normalize(d models.Delivery) (models.Delivery, error) {
	d.Date = strings.TrimSpace(d.Date)
	d.InvoiceNo = strings.TrimSpace(d.InvoiceNo)
	d.BowserNo = strings.TrimSpace(d.BowserNo)
	d.Product = strings.TrimSpace(d.Product)
	d.SealNo = strings.TrimSpace(d.SealNo)

	if d.Date == "" || d.InvoiceNo == "" || d.BowserNo == "" || d.Product == "" || d.SealNo == "" {
		return models.Delivery{}, fmt.Errorf("%w: all required fields must be provided", models.ErrInvalidInput)
	}
	if _, err := reconcile.ParseDateKey(d.Date, time.UTC); err != nil {
		return models.Delivery{}, err
	}
	if math.IsNaN(d.Quantity) || math.IsInf(d.Quantity, 0) || d.Quantity <= 0 {
		return models.Delivery{}, fmt.Errorf("%w: quantity must be a positive number", models.ErrInvalidInput)
	}

	var err error
	if d.DriverCheck, err = checkState(d.DriverCheck); err != nil {
		return models.Delivery{}, err
	}
	if d.DealerCheck, err = checkState(d.DealerCheck); err != nil {
		return models.Delivery{}, err
	}
	return d, nil
}

func checkState(v string) (string, error) {
	switch strings.TrimSpace(v) {
	case "", models.CheckPending:
		return models.CheckPending, nil
	case models.CheckChecked:
		return models.CheckChecked, nil
	}
	return "", fmt.Errorf("%w: check must be %s or %s", models.ErrInvalidInput, models.CheckPending, models.CheckChecked)
}
