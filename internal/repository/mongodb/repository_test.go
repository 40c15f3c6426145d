package mongodb

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
)

const testDB = "fuelx"

func ns(coll string) string { return testDB + "." + coll }

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestInsertDeliveries(t *testing.T) {
	mt := newMock(t)

	mt.Run("assigns ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewFromClient(mt.Client, testDB, nil)

		saved, err := repo.InsertDeliveries(context.Background(), []models.Delivery{
			{Date: "2025-01-20", InvoiceNo: "INV-1", Product: "Lanka Auto Diesel", Quantity: 6600},
			{Date: "2025-01-20", InvoiceNo: "INV-2", Product: "92 petrol", Quantity: 3300},
		})
		require.NoError(t, err)
		require.Len(t, saved, 2)
		assert.False(t, saved[0].ID.IsZero())
		assert.NotEqual(t, saved[0].ID, saved[1].ID)
	})

	mt.Run("empty batch is a no-op", func(mt *mtest.T) {
		repo := NewFromClient(mt.Client, testDB, nil)

		saved, err := repo.InsertDeliveries(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, saved)
	})

	mt.Run("write error is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		repo := NewFromClient(mt.Client, testDB, nil)

		_, err := repo.InsertDeliveries(context.Background(), []models.Delivery{{Date: "2025-01-20", Quantity: 1}})
		assert.ErrorContains(t, err, "failed to insert deliveries")
	})
}

func TestListDeliveries(t *testing.T) {
	mt := newMock(t)

	mt.Run("page with total", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(deliveriesCollection), mtest.FirstBatch,
				bson.D{{Key: "date", Value: "2025-01-20"}, {Key: "invoiceNo", Value: "INV-2"}, {Key: "quantity", Value: 3300.0}},
				bson.D{{Key: "date", Value: "2025-01-19"}, {Key: "invoiceNo", Value: "INV-1"}, {Key: "quantity", Value: 6600.0}},
			),
			mtest.CreateCursorResponse(0, ns(deliveriesCollection), mtest.FirstBatch,
				bson.D{{Key: "n", Value: int32(12)}},
			),
		)
		repo := NewFromClient(mt.Client, testDB, nil)

		items, total, err := repo.ListDeliveries(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(12), total)
		require.Len(t, items, 2)
		assert.Equal(t, "INV-2", items[0].InvoiceNo)
		assert.Equal(t, 6600.0, items[1].Quantity)
	})
}

func TestDeliveriesForDate(t *testing.T) {
	mt := newMock(t)

	mt.Run("decodes documents", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(deliveriesCollection), mtest.FirstBatch,
			bson.D{{Key: "date", Value: "2025-01-20"}, {Key: "product", Value: "Lanka Super Diesel"}, {Key: "quantity", Value: 1000.0}},
		))
		repo := NewFromClient(mt.Client, testDB, nil)

		items, err := repo.DeliveriesForDate(context.Background(), "2025-01-20")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Lanka Super Diesel", items[0].Product)
	})

	mt.Run("no deliveries yields an empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(deliveriesCollection), mtest.FirstBatch))
		repo := NewFromClient(mt.Client, testDB, nil)

		items, err := repo.DeliveriesForDate(context.Background(), "2025-01-21")
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestTankLevelSeries(t *testing.T) {
	mt := newMock(t)

	mt.Run("groups rows per fuel type in request order", func(mt *mtest.T) {
		row := func(fuel, date string, level float64) bson.D {
			return bson.D{
				{Key: "_id", Value: bson.D{{Key: "fuelType", Value: fuel}, {Key: "date", Value: date}}},
				{Key: "level", Value: level},
			}
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(tankReadingsCollection), mtest.FirstBatch,
			row(string(models.AutoDiesel), "2025-01-19", 12000),
			row(string(models.Petrol92), "2025-01-19", 9000),
			row(string(models.AutoDiesel), "2025-01-20", 11000),
		))
		repo := NewFromClient(mt.Client, testDB, nil)

		loc, err := time.LoadLocation("Asia/Colombo")
		require.NoError(t, err)
		start := time.Date(2025, time.January, 19, 0, 0, 0, 0, loc)

		series, err := repo.TankLevelSeries(context.Background(),
			[]string{string(models.Petrol92), string(models.AutoDiesel), string(models.SuperDiesel)},
			start, start.AddDate(0, 0, 2), loc)
		require.NoError(t, err)

		require.Len(t, series, 3)
		assert.Equal(t, string(models.Petrol92), series[0].FuelType)
		assert.Equal(t, []models.LevelPoint{{Date: "2025-01-19", Level: 9000}}, series[0].Points)
		assert.Equal(t, []models.LevelPoint{
			{Date: "2025-01-19", Level: 12000},
			{Date: "2025-01-20", Level: 11000},
		}, series[1].Points)
		assert.NotNil(t, series[2].Points)
		assert.Empty(t, series[2].Points)
	})
}

func TestCashbookForDate(t *testing.T) {
	mt := newMock(t)

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(cashbookCollection), mtest.FirstBatch,
			bson.D{
				{Key: "date", Value: "2025-01-20"},
				{Key: "totals", Value: bson.D{{Key: "profit", Value: 1250.5}}},
			},
		))
		repo := NewFromClient(mt.Client, testDB, nil)

		entry, err := repo.CashbookForDate(context.Background(), "2025-01-20")
		require.NoError(t, err)
		assert.Equal(t, 1250.5, entry.Totals.Profit)
		assert.Equal(t, models.CashbookSaved, entry.Source)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(cashbookCollection), mtest.FirstBatch))
		repo := NewFromClient(mt.Client, testDB, nil)

		_, err := repo.CashbookForDate(context.Background(), "2025-01-21")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpserts(t *testing.T) {
	mt := newMock(t)

	mt.Run("cash book, attendance and report upserts succeed", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)
		repo := NewFromClient(mt.Client, testDB, nil)
		ctx := context.Background()

		require.NoError(t, repo.UpsertCashbook(ctx, models.CashbookEntry{Date: "2025-01-20"}))
		require.NoError(t, repo.MarkAttendance(ctx, models.AttendanceRecord{UserID: "u1", DateKey: "2025-01-20", Present: true}))
		require.NoError(t, repo.SaveDailyReport(ctx, models.DailyReport{Date: "2025-01-20"}))
	})

	mt.Run("upsert failure is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value", Name: "BadValue"}))
		repo := NewFromClient(mt.Client, testDB, nil)

		err := repo.UpsertCashbook(context.Background(), models.CashbookEntry{Date: "2025-01-20"})
		assert.ErrorContains(t, err, "upsert into cashbook")
	})
}

func TestAttendanceBetween(t *testing.T) {
	mt := newMock(t)

	mt.Run("decodes marks", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(attendanceCollection), mtest.FirstBatch,
			bson.D{{Key: "userId", Value: "u1"}, {Key: "dateKey", Value: "2025-01-01"}, {Key: "present", Value: true}, {Key: "dailySalary", Value: 2500.0}},
			bson.D{{Key: "userId", Value: "u1"}, {Key: "dateKey", Value: "2025-01-02"}, {Key: "present", Value: false}, {Key: "dailySalary", Value: 0.0}},
		))
		repo := NewFromClient(mt.Client, testDB, nil)

		records, err := repo.AttendanceBetween(context.Background(), "u1", "2025-01-01", "2025-01-31")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.True(t, records[0].Present)
		assert.Equal(t, 2500.0, records[0].DailySalary)
	})
}
