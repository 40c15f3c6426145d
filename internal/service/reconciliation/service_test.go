package reconciliation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
)

type fakeLevels struct {
	mu     sync.Mutex
	byProd map[models.FuelProduct]models.DayLevels
	err    error
	dates  []string
}

func (f *fakeLevels) LevelsForDay(_ context.Context, p models.FuelProduct, date string) (models.DayLevels, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, date)
	return f.byProd[p], f.err
}

type fakeDeliveries struct {
	items []models.Delivery
	err   error
	calls int
}

func (f *fakeDeliveries) DeliveriesForDate(context.Context, string) ([]models.Delivery, error) {
	f.calls++
	return f.items, f.err
}

func day(y, t *float64) models.DayLevels {
	return models.DayLevels{Yesterday: y, Today: t}
}

func TestForProduct(t *testing.T) {
	levels := &fakeLevels{byProd: map[models.FuelProduct]models.DayLevels{
		models.AutoDiesel: day(reconcile.Level(8000), reconcile.Level(12000)),
	}}
	deliveries := &fakeDeliveries{items: []models.Delivery{
		{Date: "2025-01-20", Product: "Auto Diesel", Quantity: 3300},
		{Date: "2025-01-20", Product: "Lanka Super Diesel", Quantity: 6600},
		{Date: "2025-01-19", Product: "Lanka Auto Diesel", Quantity: 1000},
	}}
	svc := NewService(levels, deliveries, time.UTC, nil)

	rec, err := svc.ForProduct(context.Background(), models.AutoDiesel, "2025-01-20")
	require.NoError(t, err)

	assert.Equal(t, "ad", rec.ProductKey)
	assert.Equal(t, 1, rec.Deliveries)
	assert.Equal(t, 3300.0, rec.RecordedRefill)
	assert.Equal(t, 4000.0, rec.EffectiveRefill)
	assert.True(t, rec.InferenceUsed)
	require.NotNil(t, rec.Usage)
	assert.Equal(t, 0.0, *rec.Usage)
	assert.Equal(t, reconcile.DirectionRefilled, rec.ChangeDirection)
}

func TestForProduct_DeliveriesUnavailable(t *testing.T) {
	levels := &fakeLevels{byProd: map[models.FuelProduct]models.DayLevels{
		models.Petrol92: day(reconcile.Level(10000), reconcile.Level(7000)),
	}}
	svc := NewService(levels, &fakeDeliveries{err: errors.New("timeout")}, time.UTC, nil)

	rec, err := svc.ForProduct(context.Background(), models.Petrol92, "2025-01-20")
	require.NoError(t, err)
	assert.True(t, rec.DeliveriesUnavailable)
	assert.Zero(t, rec.RecordedRefill)
	assert.Equal(t, 3000.0, *rec.Usage)
}

func TestForProduct_Validation(t *testing.T) {
	svc := NewService(&fakeLevels{}, &fakeDeliveries{}, time.UTC, nil)

	_, err := svc.ForProduct(context.Background(), models.FuelProduct("Kerosene"), "2025-01-20")
	assert.ErrorIs(t, err, models.ErrUnknownProduct)

	_, err = svc.ForProduct(context.Background(), models.Petrol95, "2025/01/20")
	assert.ErrorIs(t, err, reconcile.ErrInvalidDate)
}

func TestForDay(t *testing.T) {
	levels := &fakeLevels{byProd: map[models.FuelProduct]models.DayLevels{
		models.Petrol92:   day(reconcile.Level(10000), reconcile.Level(7000)),
		models.Petrol95:   day(reconcile.Level(5000), nil),
		models.AutoDiesel: day(reconcile.Level(6000), reconcile.Level(5500)),
	}}
	deliveries := &fakeDeliveries{items: []models.Delivery{
		{Date: "2025-01-20", Product: "petrol 92", Quantity: 500},
	}}
	svc := NewService(levels, deliveries, time.UTC, nil)

	got, err := svc.ForDay(context.Background(), "2025-01-20")
	require.NoError(t, err)

	require.Len(t, got.Products, len(models.Products))
	for i, p := range models.Products {
		assert.Equal(t, p, got.Products[i].Product)
	}
	assert.Equal(t, 3500.0, *got.Products[0].Usage)
	assert.Nil(t, got.Products[1].Usage)
	assert.Equal(t, 500.0, *got.Products[2].Usage)
	assert.Nil(t, got.Products[3].Usage)
	assert.Equal(t, 4000.0, got.TotalUsage)
	assert.Equal(t, 1, deliveries.calls)
}

func TestForDay_LevelErrorFails(t *testing.T) {
	svc := NewService(&fakeLevels{err: reconcile.ErrInvalidDate}, &fakeDeliveries{}, time.UTC, nil)

	_, err := svc.ForDay(context.Background(), "2025-01-20")
	assert.ErrorIs(t, err, reconcile.ErrInvalidDate)
}

func TestResolveDate_DefaultsToStationToday(t *testing.T) {
	loc := time.FixedZone("station", 5*3600+1800)
	levels := &fakeLevels{}
	svc := NewService(levels, &fakeDeliveries{}, loc, nil)
	svc.now = func() time.Time { return time.Date(2025, time.January, 20, 19, 0, 0, 0, time.UTC) }

	got, err := svc.ForDay(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-21", got.Date)
	assert.Contains(t, levels.dates, "2025-01-21")
}
