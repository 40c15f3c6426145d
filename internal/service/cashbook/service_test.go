package cashbook

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
	"github.com/JayaniDinukshika/fuelx/internal/repository/mongodb"
)

type memRepo struct {
	saved   map[string]models.CashbookEntry
	saveErr error
}

func newMemRepo() *memRepo {
	return &memRepo{saved: map[string]models.CashbookEntry{}}
}

func (r *memRepo) UpsertCashbook(_ context.Context, e models.CashbookEntry) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved[e.Date] = e
	return nil
}

func (r *memRepo) CashbookForDate(_ context.Context, date string) (models.CashbookEntry, error) {
	e, ok := r.saved[date]
	if !ok {
		return models.CashbookEntry{}, mongodb.ErrNotFound
	}
	e.Source = models.CashbookSaved
	return e, nil
}

type fakeUsage struct {
	day   models.DayReconciliation
	err   error
	calls int
}

func (f *fakeUsage) ForDay(context.Context, string) (models.DayReconciliation, error) {
	f.calls++
	return f.day, f.err
}

func usageDay(values map[models.FuelProduct]float64) models.DayReconciliation {
	day := models.DayReconciliation{Date: "2025-01-20"}
	for _, p := range models.Products {
		rec := models.Reconciliation{Product: p}
		if v, ok := values[p]; ok {
			rec.Usage = reconcile.Level(v)
		}
		day.Products = append(day.Products, rec)
	}
	return day
}

func ptr(v float64) *float64 { return &v }

func TestCompute(t *testing.T) {
	entry := models.CashbookEntry{
		LitersByFuel:        models.FuelAmounts{P92: 1000, P95: 200.5, AD: 1500, SD: 0},
		PricePerLiterByFuel: models.FuelAmounts{P92: 309, P95: 371.1, AD: 286, SD: 313},
		Manual: models.ManualEntries{
			CardPayment:   50000,
			OtherIncome:   1200.25,
			Salary:        15000,
			BowserPayment: 600000,
			OtherPayment:  850.75,
		},
	}

	Compute(&entry)

	assert.Equal(t, 309000.0, entry.IncomeByFuel.P92)
	assert.Equal(t, 74405.55, entry.IncomeByFuel.P95)
	assert.Equal(t, 429000.0, entry.IncomeByFuel.AD)
	assert.Equal(t, 0.0, entry.IncomeByFuel.SD)
	assert.Equal(t, 812405.55, entry.Totals.TotalFuelIncome)
	assert.Equal(t, 762405.55, entry.Totals.TotalFuelIncomeWithoutPayment)
	assert.Equal(t, 863605.8, entry.Totals.IncomeMain)
	assert.Equal(t, 615850.75, entry.Totals.ExpensesMain)
	assert.Equal(t, 247755.05, entry.Totals.Profit)
}

func TestCompute_CardAboveFuelIncomeClampsAtZero(t *testing.T) {
	entry := models.CashbookEntry{
		LitersByFuel:        models.FuelAmounts{P92: 10},
		PricePerLiterByFuel: models.FuelAmounts{P92: 300},
		Manual:              models.ManualEntries{CardPayment: 5000},
	}

	Compute(&entry)

	assert.Equal(t, 0.0, entry.Totals.TotalFuelIncomeWithoutPayment)
	assert.Equal(t, 8000.0, entry.Totals.Profit)
}

func TestSave_FillsMissingLitersFromUsage(t *testing.T) {
	repo := newMemRepo()
	usage := &fakeUsage{day: usageDay(map[models.FuelProduct]float64{
		models.Petrol92:   3500,
		models.AutoDiesel: 500,
	})}
	svc := NewService(repo, usage, nil)

	req := models.CashbookRequest{Date: "2025-01-20"}
	req.LitersByFuel.P95 = ptr(120)
	req.PricePerLiterByFuel = models.FuelAmounts{P92: 300, P95: 350, AD: 280, SD: 310}

	entry, err := svc.Save(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.FuelAmounts{P92: 3500, P95: 120, AD: 500, SD: 0}, entry.LitersByFuel)
	assert.Equal(t, 1232000.0, entry.Totals.TotalFuelIncome)
	assert.Equal(t, models.CashbookSaved, entry.Source)
	assert.Equal(t, 1, usage.calls)
	assert.Contains(t, repo.saved, "2025-01-20")
}

func TestSave_AllLitersGivenSkipsReconciliation(t *testing.T) {
	usage := &fakeUsage{}
	svc := NewService(newMemRepo(), usage, nil)

	req := models.CashbookRequest{Date: "2025-01-20"}
	req.LitersByFuel.P92, req.LitersByFuel.P95 = ptr(1), ptr(2)
	req.LitersByFuel.AD, req.LitersByFuel.SD = ptr(3), ptr(4)

	_, err := svc.Save(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, usage.calls)
}

func TestSave_Validation(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, models.CashbookRequest{Date: "20/01/2025"})
	assert.ErrorIs(t, err, reconcile.ErrInvalidDate)

	req := models.CashbookRequest{Date: "2025-01-20"}
	req.LitersByFuel.SD = ptr(-4)
	_, err = svc.Save(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req = models.CashbookRequest{Date: "2025-01-20"}
	req.Manual.Salary = math.NaN()
	_, err = svc.Save(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSave_RepositoryError(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("write concern")
	svc := NewService(repo, nil, nil)

	_, err := svc.Save(context.Background(), models.CashbookRequest{Date: "2025-01-20"})
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	repo := newMemRepo()
	usage := &fakeUsage{day: usageDay(map[models.FuelProduct]float64{models.SuperDiesel: 250})}
	svc := NewService(repo, usage, nil)
	ctx := context.Background()

	preview, err := svc.Get(ctx, "2025-01-20")
	require.NoError(t, err)
	assert.Equal(t, models.CashbookLive, preview.Source)
	assert.Equal(t, 250.0, preview.LitersByFuel.SD)
	assert.Zero(t, preview.Totals.Profit)

	repo.saved["2025-01-20"] = models.CashbookEntry{Date: "2025-01-20", Totals: models.CashbookTotals{Profit: 99}}
	saved, err := svc.Get(ctx, "2025-01-20")
	require.NoError(t, err)
	assert.Equal(t, models.CashbookSaved, saved.Source)
	assert.Equal(t, 99.0, saved.Totals.Profit)
}

func TestProfit(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil, nil)

	profit, err := svc.Profit(context.Background(), "2025-01-20")
	require.NoError(t, err)
	assert.Nil(t, profit)

	repo.saved["2025-01-20"] = models.CashbookEntry{Totals: models.CashbookTotals{Profit: -12.5}}
	profit, err = svc.Profit(context.Background(), "2025-01-20")
	require.NoError(t, err)
	assert.Equal(t, ptr(-12.5), profit)
}
